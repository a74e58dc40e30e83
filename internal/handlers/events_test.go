package handlers

import (
	"sync"
	"testing"

	"teamboard-backend/internal/realtime"
)

// recordingSink captures coordinator pushes in place of a websocket conn.
type recordingSink struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (s *recordingSink) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, v.(realtime.Event))
	return nil
}

func (s *recordingSink) last(event string) (realtime.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].Event == event {
			return s.events[i], true
		}
	}
	return realtime.Event{}, false
}

func (s *recordingSink) count(event string) int {
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

func TestDispatchCallScenario(t *testing.T) {
	co := realtime.NewCoordinator()
	sinkA := &recordingSink{}
	sinkB := &recordingSink{}
	co.Register("connA", sinkA)
	co.Register("connB", sinkB)

	DispatchEvent(co, "connA", 1, []byte(`{"event":"join-room","room":"42","user":{"id":1,"first_name":"Ada"}}`))
	DispatchEvent(co, "connB", 2, []byte(`{"event":"join-room","room":"42","user":{"id":2,"first_name":"Bob"}}`))

	if got := len(co.ListUsers("42")); got != 2 {
		t.Fatalf("room has %d users, want 2", got)
	}

	DispatchEvent(co, "connA", 1, []byte(
		`{"event":"call-initiate","room":"42","target_user_id":2,"caller_id":1,"caller_name":"Ada","channel_token":"call_42_999"}`))

	evt, ok := sinkB.last(realtime.EventIncomingCall)
	if !ok {
		t.Fatal("B never received incoming-call")
	}
	ring := evt.Data.(realtime.IncomingCallPayload)
	if ring.ChannelToken != "call_42_999" || ring.CallerID != 1 {
		t.Fatalf("ring payload = %+v", ring)
	}

	DispatchEvent(co, "connB", 2, []byte(
		`{"event":"call-answer","room":"42","target_user_id":1,"channel_token":"call_42_999"}`))

	ans, ok := sinkA.last(realtime.EventCallAnswered)
	if !ok {
		t.Fatal("A never received call-answered")
	}
	if got := ans.Data.(realtime.CallAnsweredPayload).ChannelToken; got != "call_42_999" {
		t.Fatalf("answered token = %q", got)
	}
}

func TestDispatchPresenceFlow(t *testing.T) {
	co := realtime.NewCoordinator()
	sinkA := &recordingSink{}
	co.Register("connA", sinkA)

	DispatchEvent(co, "connA", 1, []byte(`{"event":"join-room","room":"7","user":{"id":1,"first_name":"Ada"}}`))
	DispatchEvent(co, "connA", 1, []byte(`{"event":"set-status","room":"7","status":"busy"}`))

	users := co.ListUsers("7")
	if len(users) != 1 || users[0].Status != realtime.StatusBusy {
		t.Fatalf("ListUsers = %v, want one busy entry", users)
	}
	if got := sinkA.count(realtime.EventOnlineUsers); got != 2 {
		t.Fatalf("online-users pushes = %d, want 2 (join + status)", got)
	}

	DispatchEvent(co, "connA", 1, []byte(`{"event":"leave-room","room":"7"}`))
	if users := co.ListUsers("7"); len(users) != 0 {
		t.Fatalf("ListUsers after leave = %v, want empty", users)
	}
}

func TestDispatchTypingRelay(t *testing.T) {
	co := realtime.NewCoordinator()
	sinkA := &recordingSink{}
	sinkB := &recordingSink{}
	co.Register("connA", sinkA)
	co.Register("connB", sinkB)

	DispatchEvent(co, "connA", 1, []byte(`{"event":"join-room","room":"42","user":{"id":1,"first_name":"Ada"}}`))
	DispatchEvent(co, "connB", 2, []byte(`{"event":"join-room","room":"42","user":{"id":2,"first_name":"Bob"}}`))

	DispatchEvent(co, "connA", 1, []byte(`{"event":"typing","room":"42","user":{"id":1,"first_name":"Ada"}}`))

	if sinkA.count(realtime.EventUserTyping) != 0 {
		t.Fatal("typing echoed to sender")
	}
	if sinkB.count(realtime.EventUserTyping) != 1 {
		t.Fatal("typing did not reach the other subscriber")
	}
}

func TestDispatchIgnoresMalformedEvents(t *testing.T) {
	co := realtime.NewCoordinator()
	sink := &recordingSink{}
	co.Register("connA", sink)

	cases := []struct {
		name string
		raw  string
	}{
		{"truncated json", `{"event":"join-room","room"`},
		{"join without user", `{"event":"join-room","room":"1"}`},
		{"join without user id", `{"event":"join-room","room":"1","user":{"first_name":"Ada"}}`},
		{"join without room", `{"event":"join-room","user":{"id":1,"first_name":"Ada"}}`},
		{"status without room", `{"event":"set-status","status":"busy"}`},
		{"call without target", `{"event":"call-initiate","room":"1","channel_token":"t"}`},
		{"unknown event", `{"event":"self-destruct","room":"1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			DispatchEvent(co, "connA", 1, []byte(tc.raw))
			if users := co.ListUsers("1"); len(users) != 0 {
				t.Fatalf("malformed event mutated presence: %v", users)
			}
		})
	}

	if len(sink.events) != 0 {
		t.Fatalf("malformed events produced %d pushes, want 0", len(sink.events))
	}
}
