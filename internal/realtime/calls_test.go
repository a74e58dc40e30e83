package realtime

import "testing"

func TestCallRoundTrip(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "connA")
	sinkB := connect(t, co, "connB")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "connB")

	co.InitiateCall("42", 1, "Ada", 2, "call_42_999", "connA")

	evt, ok := sinkB.last(EventIncomingCall)
	if !ok {
		t.Fatal("target never received incoming-call")
	}
	ring, ok := evt.Data.(IncomingCallPayload)
	if !ok {
		t.Fatalf("payload type %T, want IncomingCallPayload", evt.Data)
	}
	if ring.ChannelToken != "call_42_999" {
		t.Fatalf("channel token = %q, want call_42_999", ring.ChannelToken)
	}
	if ring.CallerID != 1 || ring.CallerName != "Ada" {
		t.Fatalf("caller identity = (%d, %q), want (1, Ada)", ring.CallerID, ring.CallerName)
	}
	if ring.CallerConnectionID != "connA" {
		t.Fatalf("caller connection = %q, want connA", ring.CallerConnectionID)
	}
	if sinkA.count(EventIncomingCall) != 0 {
		t.Fatal("caller must not receive its own ring")
	}

	// B answers; A hears it with the same token.
	co.AnswerCall("42", 1, ring.ChannelToken)

	ans, ok := sinkA.last(EventCallAnswered)
	if !ok {
		t.Fatal("caller never received call-answered")
	}
	if got := ans.Data.(CallAnsweredPayload).ChannelToken; got != "call_42_999" {
		t.Fatalf("answered token = %q, want call_42_999", got)
	}
}

func TestInitiateToOfflineTarget(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "connA")
	sinkC := connect(t, co, "connC")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", User{ID: 3, FirstName: "Cyd"}, "connC")
	bystander := sinkC.total()

	// User 2 never joined.
	co.InitiateCall("42", 1, "Ada", 2, "tok", "connA")

	if got := sinkA.count(EventCallFailed); got != 1 {
		t.Fatalf("caller received %d call-failed events, want exactly 1", got)
	}
	evt, _ := sinkA.last(EventCallFailed)
	if msg := evt.Data.(CallFailedPayload).Message; msg != "User is not online" {
		t.Fatalf("failure message = %q", msg)
	}
	if sinkC.total() != bystander {
		t.Fatal("bystander received events for a failed call")
	}
}

func TestAnswerWithCallerGoneIsSilent(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "connA")
	sinkB := connect(t, co, "connB")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "connB")

	// Caller disconnects during the ring.
	co.Unregister("connA")
	before := sinkB.total()

	co.AnswerCall("42", 1, "tok")

	// Nobody left to notify is not an error: no event anywhere.
	if sinkB.total() != before {
		t.Fatal("answer to a vanished caller produced events")
	}
}

func TestRejectCall(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "connA")
	connect(t, co, "connB")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "connB")

	co.RejectCall("42", 1)

	evt, ok := sinkA.last(EventCallRejected)
	if !ok {
		t.Fatal("caller never received call-rejected")
	}
	if reason := evt.Data.(CallRejectedPayload).Reason; reason != "Call was declined" {
		t.Fatalf("reason = %q", reason)
	}

	// Rejecting again after the caller left is a no-op.
	co.Unregister("connA")
	co.RejectCall("42", 1)
}

func TestEndCall(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "connA")
	sinkB := connect(t, co, "connB")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "connB")

	co.EndCall("42", 2)

	if sinkB.count(EventCallEnded) != 1 {
		t.Fatal("target never received call-ended")
	}

	co.EndCall("42", 99) // unknown target, silent
}

func TestCallRoutingFollowsReconnect(t *testing.T) {
	co := NewCoordinator()
	sinkA := connect(t, co, "connA")
	connect(t, co, "connB1")

	user2 := User{ID: 2, FirstName: "Bob"}
	co.Join("42", User{ID: 1, FirstName: "Ada"}, "connA")
	co.Join("42", user2, "connB1")

	// Bob reconnects mid-call on a fresh connection.
	sinkB2 := connect(t, co, "connB2")
	co.Join("42", user2, "connB2")
	co.Unregister("connB1")

	co.InitiateCall("42", 1, "Ada", 2, "tok2", "connA")

	if sinkB2.count(EventIncomingCall) != 1 {
		t.Fatal("ring did not follow the user to the new connection")
	}
	if sinkA.count(EventCallFailed) != 0 {
		t.Fatal("call reported failed despite live reconnect")
	}
}
