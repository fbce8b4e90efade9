package apps

import (
	"context"
	"sync"
)

// Handler receives a signal. sender is the label of the app that sent it.
type Handler func(ctx context.Context, sender string) error

type receiver struct {
	sender  string
	handler Handler
}

// Signal is a synchronous, in-process event. Receivers run in connection
// order on the sending goroutine.
type Signal struct {
	mu        sync.Mutex
	receivers []receiver
}

// Connect registers handler for sends from sender. An empty sender
// receives every send.
func (s *Signal) Connect(handler Handler, sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivers = append(s.receivers, receiver{sender: sender, handler: handler})
}

// Send runs every matching receiver. The first error stops dispatch and is returned.
func (s *Signal) Send(ctx context.Context, sender string) error {
	s.mu.Lock()
	rs := make([]receiver, len(s.receivers))
	copy(rs, s.receivers)
	s.mu.Unlock()

	for _, r := range rs {
		if r.sender != "" && r.sender != sender {
			continue
		}
		if err := r.handler(ctx, sender); err != nil {
			return err
		}
	}
	return nil
}

// Receivers reports how many handlers are connected.
func (s *Signal) Receivers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receivers)
}

// Signals groups the lifecycle events an app can subscribe to.
type Signals struct {
	// PostMigrate is sent once per app config after migrations are applied.
	PostMigrate Signal
}
