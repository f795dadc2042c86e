// Package ui holds the storefront's small interface affordances: transient
// alerts, loading buttons and the navigation bar.
package ui

import (
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

type Alert struct {
	ID      string
	Message string
	Kind    Kind
	Shown   time.Time
}

// Alerts shows at most one alert at a time; a new one replaces the current
// one, and each expires after the configured TTL.
type Alerts struct {
	ttl time.Duration

	mu      sync.Mutex
	current *Alert
	timer   *time.Timer
	notify  func(a *Alert)
}

func NewAlerts(ttl time.Duration) *Alerts {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Alerts{ttl: ttl}
}

// OnChange registers fn to be called with the visible alert (nil when the
// alert is removed). fn runs without the lock held.
func (a *Alerts) OnChange(fn func(*Alert)) {
	a.mu.Lock()
	a.notify = fn
	a.mu.Unlock()
}

// Show replaces any visible alert with message. An empty kind means error.
func (a *Alerts) Show(message string, kind Kind) Alert {
	if kind == "" {
		kind = KindError
	}
	alert := Alert{ID: uuid.NewString(), Message: message, Kind: kind, Shown: time.Now()}

	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.current = &alert
	a.timer = time.AfterFunc(a.ttl, func() { a.Dismiss(alert.ID) })
	notify := a.notify
	a.mu.Unlock()

	if notify != nil {
		shown := alert
		notify(&shown)
	}
	return alert
}

// Dismiss removes the alert with id if it is still the visible one.
func (a *Alerts) Dismiss(id string) bool {
	a.mu.Lock()
	if a.current == nil || a.current.ID != id {
		a.mu.Unlock()
		return false
	}
	a.current = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	notify := a.notify
	a.mu.Unlock()

	if notify != nil {
		notify(nil)
	}
	return true
}

// Current returns the visible alert, if any.
func (a *Alerts) Current() (Alert, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return Alert{}, false
	}
	return *a.current, true
}

// Close stops the expiry timer.
func (a *Alerts) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

var alertTmpl = template.Must(template.New("alert").Parse(
	`<div class="alert alert-{{.Kind}}" id="alert-{{.ID}}">{{.Message}}</div>`))

// HTML renders the visible alert, or "" when there is none.
func (a *Alerts) HTML() string {
	alert, ok := a.Current()
	if !ok {
		return ""
	}
	var sb strings.Builder
	_ = alertTmpl.Execute(&sb, alert)
	return sb.String()
}
