package service

import "sync"

// LiveRegion is the polite, atomic announcement area read by assistive technology.
type LiveRegion struct {
	mu   sync.RWMutex
	text string
}

func NewLiveRegion() *LiveRegion {
	return &LiveRegion{}
}

// Announce replaces the region's content; atomic regions are read as a whole.
func (r *LiveRegion) Announce(message string) {
	r.mu.Lock()
	r.text = message
	r.mu.Unlock()
}

func (r *LiveRegion) Text() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}

func (r *LiveRegion) Politeness() string { return "polite" }

func (r *LiveRegion) Atomic() bool { return true }
