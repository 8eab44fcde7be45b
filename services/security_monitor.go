package services

import (
	"log"
	"sync"
	"time"
)

// Security event kinds the public endpoints report
const (
	EventPaymentVerificationFailed = "payment_verification_failed"
	EventCaptchaFailed             = "captcha_failed"
)

const (
	failureWindow    = 10 * time.Minute
	failureThreshold = 5
	alertCooldown    = 1 * time.Hour
	maxAlerts        = 100
)

// SecurityEventMonitor aggregates failed payment verifications and CAPTCHA
// failures per IP and raises an alert when one IP crosses the threshold
type SecurityEventMonitor struct {
	mu         sync.Mutex
	failures   map[string][]time.Time // "kind|ip" -> failure timestamps
	alertedIPs map[string]time.Time   // "kind|ip" -> last alert time
	alerts     []SecurityAlert        // newest first
	now        func() time.Time
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Kind      string
	Count     int
}

// Global monitor instance
var Monitor *SecurityEventMonitor

// InitSecurityMonitor initializes the global monitor
func InitSecurityMonitor() {
	Monitor = NewSecurityMonitor()
	go Monitor.cleanup()
}

func NewSecurityMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failures:   make(map[string][]time.Time),
		alertedIPs: make(map[string]time.Time),
		now:        time.Now,
	}
}

// TrackFailure records one failure of kind from ip. A nil monitor ignores it.
func (m *SecurityEventMonitor) TrackFailure(kind, ip string) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := kind + "|" + ip
	windowStart := now.Add(-failureWindow)

	recent := m.failures[key][:0]
	for _, t := range m.failures[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failures[key] = recent

	if len(recent) >= failureThreshold {
		m.triggerAlertLocked(key, kind, ip, len(recent))
	}
}

// triggerAlertLocked logs and records an alert, at most once per cooldown per key
func (m *SecurityEventMonitor) triggerAlertLocked(key, kind, ip string, count int) {
	if last, alerted := m.alertedIPs[key]; alerted && m.now().Sub(last) < alertCooldown {
		return
	}
	m.alertedIPs[key] = m.now()

	alert := SecurityAlert{Timestamp: m.now(), IP: ip, Kind: kind, Count: count}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	log.Printf("[SECURITY ALERT] %d x %s from IP: %s", count, kind, ip)
}

// GetRecentAlerts returns a copy of recent alerts
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	alertsCopy := make([]SecurityAlert, len(m.alerts))
	copy(alertsCopy, m.alerts)
	return alertsCopy
}

// purgeStale drops failure windows and alert cooldowns that have lapsed
func (m *SecurityEventMonitor) purgeStale() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, attempts := range m.failures {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failureWindow {
			delete(m.failures, key)
		}
	}
	for key, lastAlert := range m.alertedIPs {
		if now.Sub(lastAlert) > alertCooldown {
			delete(m.alertedIPs, key)
		}
	}
}

// cleanup periodically removes stale data
func (m *SecurityEventMonitor) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		m.purgeStale()
	}
}
