package ui

import "sync"

const loadingHTML = `<div class="loading"></div>`

// Button is a form submit button that can show a spinner while a request runs.
type Button struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

func NewButton(label string) *Button {
	return &Button{label: label}
}

func (b *Button) ShowLoading() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.label = loadingHTML
	b.disabled = true
}

// HideLoading restores the button with text and enables it again.
func (b *Button) HideLoading(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.label = text
	b.disabled = false
}

func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Button) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}
