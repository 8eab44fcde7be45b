package services

import (
	"chatpilot_site/config"
	"chatpilot_site/models"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailAPI(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *MailAPIClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewMailAPIClient(&config.Config{
		MailAPIBaseURL: server.URL,
		MailAPITimeout: timeout,
		ContactPath:    "/api/email/contact-us",
		AppLinkPath:    "/api/email/send-app-link",
	})
}

func TestMailAPIClient_RelayContactRequest(t *testing.T) {
	t.Run("Posts exact JSON body", func(t *testing.T) {
		var calls int32
		var gotBody string
		var gotPath, gotMethod, gotContentType string

		client := newTestMailAPI(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			gotPath = r.URL.Path
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusOK)
		}, time.Second)

		err := client.RelayContactRequest(context.Background(), models.ContactRequest{
			Name:     "Jane Doe",
			Email:    "jane@acme.co",
			Interest: "WhatsApp bulk send",
		})
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/api/email/contact-us", gotPath)
		assert.Contains(t, gotContentType, "application/json")
		assert.JSONEq(t, `{"name":"Jane Doe","email":"jane@acme.co","interest":"WhatsApp bulk send"}`, gotBody)
	})

	t.Run("Non-2xx is a network error", func(t *testing.T) {
		client := newTestMailAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, time.Second)

		err := client.RelayContactRequest(context.Background(), models.ContactRequest{Name: "a", Email: "a@b", Interest: "x"})
		require.Error(t, err)

		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)
		assert.False(t, netErr.Timeout)
	})

	t.Run("Hung request times out", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		client := newTestMailAPI(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, 50*time.Millisecond)

		err := client.RelayContactRequest(context.Background(), models.ContactRequest{Name: "a", Email: "a@b", Interest: "x"})
		require.Error(t, err)

		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.True(t, netErr.Timeout)
		assert.Contains(t, netErr.Error(), "timed out")
	})

	t.Run("Unreachable host", func(t *testing.T) {
		client := NewMailAPIClient(&config.Config{
			MailAPIBaseURL: "http://127.0.0.1:1",
			MailAPITimeout: time.Second,
			ContactPath:    "/api/email/contact-us",
		})
		err := client.RelayContactRequest(context.Background(), models.ContactRequest{Name: "a", Email: "a@b", Interest: "x"})
		assert.True(t, IsNetworkError(err))
	})
}

func TestMailAPIClient_SendAppLink(t *testing.T) {
	var payload AppLinkPayload
	var gotPath string

	client := newTestMailAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusAccepted)
	}, time.Second)

	err := client.SendAppLink(context.Background(), "a@b.com", "a")
	require.NoError(t, err)
	assert.Equal(t, "/api/email/send-app-link", gotPath)
	assert.Equal(t, AppLinkPayload{Email: "a@b.com", Name: "a"}, payload)
}
