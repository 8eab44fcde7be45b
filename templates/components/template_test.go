package components

import (
	"bytes"
	"chatpilot_site/middleware"
	"chatpilot_site/services/i18n"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBindsRequestContext(t *testing.T) {
	fsys := fstest.MapFS{
		"greet.html": {Data: []byte(`{{define "greet"}}<p lang="{{lang}}" data-nonce="{{nonce}}">{{t "missing.key"}} {{.}}</p>{{end}}`)},
	}
	set := MustParse(fsys, "*.html")

	ctx := i18n.WithLocale(context.Background(), "es")
	ctx = context.WithValue(ctx, middleware.NonceKey, "n0nce")

	var buf bytes.Buffer
	require.NoError(t, Render(set, "greet", "<b>").Render(ctx, &buf))

	assert.Equal(t, `<p lang="es" data-nonce="n0nce">missing.key &lt;b&gt;</p>`, buf.String())
}

func TestRenderUnknownTemplate(t *testing.T) {
	set := MustParse(fstest.MapFS{"a.html": {Data: []byte(`{{define "a"}}a{{end}}`)}}, "*.html")

	var buf bytes.Buffer
	err := Render(set, "nope", nil).Render(context.Background(), &buf)
	assert.Error(t, err)
}

func TestArgsFromPairs(t *testing.T) {
	args := argsFromPairs([]interface{}{"name", "Ana", "count", 2, "dangling"})
	assert.Equal(t, map[string]interface{}{"name": "Ana", "count": 2}, args)
}

func TestJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{}", JSON(make(chan int)))
}
