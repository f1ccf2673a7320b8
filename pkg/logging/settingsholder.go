package logging

import "sync/atomic"

// SettingsHolder lets a Provider swap its Settings in place (used by
// internal/config's fsnotify-driven hot reload) while every Logger it
// already handed out keeps observing the current value — the idiomatic Go
// analog of the source material's live-reloadable configuration, without
// a mutex on the read path.
type SettingsHolder struct {
	v atomic.Pointer[Settings]
}

// NewSettingsHolder wraps an initial Settings value.
func NewSettingsHolder(s Settings) *SettingsHolder {
	h := &SettingsHolder{}
	h.v.Store(&s)
	return h
}

// Get returns the current Settings value.
func (h *SettingsHolder) Get() Settings {
	return *h.v.Load()
}

// Store atomically replaces the current Settings value.
func (h *SettingsHolder) Store(s Settings) {
	h.v.Store(&s)
}
