package realtime

import "testing"

func TestJoinOverwritesDuplicateUser(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	connect(t, co, "c2")

	user := User{ID: 7, FirstName: "Ada", Email: "ada@example.com"}
	co.Join("42", user, "c1")
	co.Join("42", user, "c2") // second tab / reconnect

	users := co.ListUsers("42")
	if len(users) != 1 {
		t.Fatalf("ListUsers returned %d entries, want exactly 1", len(users))
	}
	if users[0].ID != 7 {
		t.Fatalf("ListUsers[0].ID = %d, want 7", users[0].ID)
	}

	connID, ok := co.FindConnectionID("42", 7)
	if !ok || connID != "c2" {
		t.Fatalf("FindConnectionID = (%q, %v), want (\"c2\", true)", connID, ok)
	}
}

func TestDisconnectRemovesPresence(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")

	co.Join("42", User{ID: 7, FirstName: "Ada"}, "c1")
	co.Unregister("c1")

	if users := co.ListUsers("42"); len(users) != 0 {
		t.Fatalf("ListUsers after disconnect = %v, want empty", users)
	}
	if _, ok := co.FindConnectionID("42", 7); ok {
		t.Fatal("FindConnectionID should fail after disconnect")
	}
}

func TestStaleDisconnectDoesNotEvictNewerSession(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	connect(t, co, "c2")

	user := User{ID: 7, FirstName: "Ada"}
	co.Join("42", user, "c1")
	co.Join("42", user, "c2")

	// The old connection's disconnect arrives after the reconnect.
	co.Unregister("c1")

	users := co.ListUsers("42")
	if len(users) != 1 || users[0].ID != 7 {
		t.Fatalf("ListUsers = %v, want the user still present", users)
	}
	connID, ok := co.FindConnectionID("42", 7)
	if !ok || connID != "c2" {
		t.Fatalf("FindConnectionID = (%q, %v), want (\"c2\", true)", connID, ok)
	}
}

func TestSetStatus(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")

	co.Join("7", User{ID: 1, FirstName: "Ada"}, "c1")
	co.SetStatus("7", "c1", StatusBusy)

	users := co.ListUsers("7")
	if len(users) != 1 {
		t.Fatalf("ListUsers returned %d entries, want 1", len(users))
	}
	if users[0].Status != StatusBusy {
		t.Fatalf("status = %q, want %q", users[0].Status, StatusBusy)
	}
}

func TestSetStatusUnknownConnectionIsNoop(t *testing.T) {
	co := NewCoordinator()
	sink := connect(t, co, "c1")
	connect(t, co, "c2")

	co.Join("7", User{ID: 1, FirstName: "Ada"}, "c1")
	before := sink.count(EventOnlineUsers)

	// c2 never joined room 7.
	co.SetStatus("7", "c2", StatusAway)

	users := co.ListUsers("7")
	if len(users) != 1 || users[0].Status != StatusOnline {
		t.Fatalf("ListUsers = %v, want unchanged online entry", users)
	}
	if got := sink.count(EventOnlineUsers); got != before {
		t.Fatalf("broadcast count changed %d -> %d on no-op", before, got)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")

	co.Join("7", User{ID: 1, FirstName: "Ada"}, "c1")
	co.SetStatus("7", "c1", "invisible")

	if users := co.ListUsers("7"); users[0].Status != StatusOnline {
		t.Fatalf("status = %q, want online after invalid set", users[0].Status)
	}
}

func TestJoinThenStatusChangeBroadcastsTwice(t *testing.T) {
	co := NewCoordinator()
	sink := connect(t, co, "c1")

	co.Join("7", User{ID: 1, FirstName: "Ada"}, "c1")
	co.SetStatus("7", "c1", StatusBusy)

	// One push for the join, one for the status change, never coalesced.
	if got := sink.count(EventOnlineUsers); got != 2 {
		t.Fatalf("online-users broadcasts = %d, want 2", got)
	}

	evt, _ := sink.last(EventOnlineUsers)
	users, ok := evt.Data.([]User)
	if !ok {
		t.Fatalf("payload type %T, want []User", evt.Data)
	}
	if len(users) != 1 || users[0].Status != StatusBusy {
		t.Fatalf("final payload = %v, want single busy entry", users)
	}
}

func TestLeaveRemovesEntryAndNotifiesRemaining(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	sinkB := connect(t, co, "c2")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "c2")
	before := sinkB.count(EventOnlineUsers)

	co.Leave("42", "c1")

	users := co.ListUsers("42")
	if len(users) != 1 || users[0].ID != 2 {
		t.Fatalf("ListUsers = %v, want only user 2", users)
	}
	if got := sinkB.count(EventOnlineUsers); got != before+1 {
		t.Fatalf("remaining subscriber saw %d broadcasts, want %d", got, before+1)
	}
}

func TestLeaveWithoutEntryStillUnsubscribes(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	sink := connect(t, co, "c2")

	co.Join("42", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("42", User{ID: 2, FirstName: "Bob"}, "c2")

	co.Leave("42", "c2")
	before := sink.total()

	// c2 is gone from the room: fan-out must no longer reach it.
	co.Publish("42", map[string]interface{}{"id": 1}, "")
	if sink.total() != before {
		t.Fatal("unsubscribed connection still received room traffic")
	}
}

func TestMultiRoomDisconnectCleansEachRoom(t *testing.T) {
	co := NewCoordinator()
	connect(t, co, "c1")
	sinkB := connect(t, co, "c2")

	co.Join("1", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("2", User{ID: 1, FirstName: "Ada"}, "c1")
	co.Join("2", User{ID: 2, FirstName: "Bob"}, "c2")
	before := sinkB.count(EventOnlineUsers)

	co.Unregister("c1")

	if users := co.ListUsers("1"); len(users) != 0 {
		t.Fatalf("room 1 = %v, want empty", users)
	}
	if users := co.ListUsers("2"); len(users) != 1 || users[0].ID != 2 {
		t.Fatalf("room 2 = %v, want only user 2", users)
	}
	if got := sinkB.count(EventOnlineUsers); got != before+1 {
		t.Fatalf("room 2 subscriber saw %d broadcasts, want %d", got, before+1)
	}
}

func TestListUsersUnknownRoomIsEmpty(t *testing.T) {
	co := NewCoordinator()
	if users := co.ListUsers("nope"); len(users) != 0 {
		t.Fatalf("ListUsers = %v, want empty", users)
	}
}
