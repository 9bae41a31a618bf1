package service

import (
	"sync"
	"time"
)

const (
	RouteSignIn = "/signin"

	// RedirectDelay keeps a scan error on screen before leaving for sign-in.
	RedirectDelay = 3 * time.Second
)

type Redirect struct {
	Route string        `json:"route"`
	Delay time.Duration `json:"delay"`
}

// PendingNavigator records the most recent navigation request until a caller
// takes it. The HTTP layer drains it after each store call.
type PendingNavigator struct {
	mu      sync.Mutex
	pending *Redirect
}

func NewPendingNavigator() *PendingNavigator {
	return &PendingNavigator{}
}

func (n *PendingNavigator) Navigate(route string, delay time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = &Redirect{Route: route, Delay: delay}
}

func (n *PendingNavigator) Take() (Redirect, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		return Redirect{}, false
	}
	r := *n.pending
	n.pending = nil
	return r, true
}
