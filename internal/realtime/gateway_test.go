package realtime

import "testing"

func TestPublishExcludesSenderConnection(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "c1")
	sinkB := connect(t, co, "c2")
	sinkC := connect(t, co, "c3")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "c2")
	co.Join("42", User{ID: 3, FirstName: "Cyd"}, "c3")

	msg := map[string]interface{}{"id": 10, "content": "hello"}
	co.Publish("42", msg, "c1")

	if sinkA.count(EventNewMessage) != 0 {
		t.Fatal("excluded connection received the message")
	}
	if sinkB.count(EventNewMessage) != 1 || sinkC.count(EventNewMessage) != 1 {
		t.Fatal("other subscribers did not each receive exactly one copy")
	}
}

func TestPublishWithoutExclusionReachesAll(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "c1")
	sinkB := connect(t, co, "c2")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "c2")

	// No exclusion hint: the originator also gets the async copy and
	// dedups client-side by message id.
	co.Publish("42", map[string]interface{}{"id": 11}, "")

	if sinkA.count(EventNewMessage) != 1 || sinkB.count(EventNewMessage) != 1 {
		t.Fatal("publish without exclusion should reach every subscriber")
	}
}

func TestPublishToEmptyRoom(t *testing.T) {
	co := NewCoordinator()
	co.Publish("nowhere", map[string]interface{}{"id": 1}, "")
}

func TestPublishEventReachesAllSubscribers(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "c1")
	sinkB := connect(t, co, "c2")

	co.Join("7", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("7", User{ID: 2, FirstName: "Bob"}, "c2")

	co.PublishEvent("7", EventPollUpdated, map[string]interface{}{"id": 3})

	if sinkA.count(EventPollUpdated) != 1 || sinkB.count(EventPollUpdated) != 1 {
		t.Fatal("poll update should reach every subscriber")
	}
}

func TestNotifyUserReachesEveryConnection(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "c1")
	sinkB := connect(t, co, "c2") // never joined a room

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")

	co.NotifyUser(5)

	for i, sink := range []*fakeSink{sinkA, sinkB} {
		evt, ok := sink.last(EventNewNotification)
		if !ok {
			t.Fatalf("connection %d missed the notification alert", i+1)
		}
		if got := evt.Data.(NotificationAlertPayload).UserID; got != 5 {
			t.Fatalf("alert user id = %d, want 5", got)
		}
	}
}

func TestTypingExcludesSender(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "c1")
	sinkB := connect(t, co, "c2")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "c2")

	co.NotifyTyping("42", User{ID: 1, FirstName: "Ada"}, "c1")

	if sinkA.count(EventUserTyping) != 0 {
		t.Fatal("typing echoed back to the sender")
	}
	evt, ok := sinkB.last(EventUserTyping)
	if !ok {
		t.Fatal("other subscriber never saw user-typing")
	}
	payload := evt.Data.(TypingPayload)
	if payload.UserID != 1 || payload.FirstName != "Ada" {
		t.Fatalf("typing payload = %+v", payload)
	}

	co.NotifyStopTyping("42", 1, "c1")
	if sinkA.count(EventUserStopTyping) != 0 {
		t.Fatal("stop-typing echoed back to the sender")
	}
	if sinkB.count(EventUserStopTyping) != 1 {
		t.Fatal("other subscriber never saw user-stop-typing")
	}
}

func TestBroadcastSurvivesFailingSubscriber(t *testing.T) {
	co := NewCoordinator()
	co.Register("bad", brokenSink{})
	sinkB := connect(t, co, "good")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "bad")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "good")
	before := sinkB.count(EventNewMessage)

	co.Publish("42", map[string]interface{}{"id": 1}, "")

	// The failed write is dropped for that subscriber only.
	if got := sinkB.count(EventNewMessage); got != before+1 {
		t.Fatalf("healthy subscriber got %d messages, want %d", got, before+1)
	}
}
