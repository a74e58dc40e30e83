package realtime

import (
	"errors"
	"sync"
	"testing"
)

// fakeSink records every event written to it, standing in for a websocket
// connection.
type fakeSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *fakeSink) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	evt, ok := v.(Event)
	if !ok {
		return errors.New("unexpected payload type")
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *fakeSink) count(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (s *fakeSink) last(event string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Event == event {
			return s.events[i], true
		}
	}
	return Event{}, false
}

func (s *fakeSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// brokenSink fails every write, simulating a transport that is momentarily
// unable to receive.
type brokenSink struct{}

func (brokenSink) WriteJSON(interface{}) error {
	return errors.New("write: broken pipe")
}

func connect(t *testing.T, co *Coordinator, connID string) *fakeSink {
	t.Helper()
	sink := &fakeSink{}
	co.Register(connID, sink)
	return sink
}

func TestRegisterUnregister(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	connect(t, co, "c2")

	if got := co.ConnectionCount(); got != 2 {
		t.Fatalf("ConnectionCount = %d, want 2", got)
	}

	co.Unregister("c1")
	if got := co.ConnectionCount(); got != 1 {
		t.Fatalf("ConnectionCount after unregister = %d, want 1", got)
	}

	// Unregistering an unknown connection must not panic or change state.
	co.Unregister("nope")
	if got := co.ConnectionCount(); got != 1 {
		t.Fatalf("ConnectionCount after bogus unregister = %d, want 1", got)
	}
}

func TestJoinBeforeRegisterIsIgnored(t *testing.T) {
	co := NewCoordinator()
	co.Join("1", User{ID: 1, FirstName: "Ada"}, "ghost")

	if users := co.ListUsers("1"); len(users) != 0 {
		t.Fatalf("ListUsers = %v, want empty", users)
	}
}
