package config

import (
	"log"
	"sync"
	"sync/atomic"
)

// Holder keeps the current settings snapshot, thread-safe.
// Readers get the snapshot without locking, Replace swaps it and notifies subscribers.
type Holder struct {
	current atomic.Pointer[Settings]

	lock        sync.Mutex // serializes Replace and Subscribe
	subscribers []func(Settings)
}

// NewHolder makes a holder with initial settings
func NewHolder(s Settings) *Holder {
	res := &Holder{}
	res.current.Store(&s)
	return res
}

// Get returns the current settings. The result must not be modified.
func (h *Holder) Get() Settings {
	return *h.current.Load()
}

// Replace sets new settings and calls all subscribers with them, in subscription order
func (h *Holder) Replace(s Settings) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.current.Store(&s)
	for _, fn := range h.subscribers {
		fn(s)
	}
	log.Printf("[INFO] settings replaced, enabled:%v, action:%s, groups:%d, whitelist:%d",
		s.Enabled, s.Action, len(s.Groups), len(s.Whitelist))
}

// Subscribe adds a function called on each Replace. It is also called immediately with the current settings.
func (h *Holder) Subscribe(fn func(Settings)) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.subscribers = append(h.subscribers, fn)
	fn(h.Get())
}
