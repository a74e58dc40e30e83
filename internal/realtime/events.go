package realtime

// Event names pushed to clients.
const (
	EventConnected       = "connected"
	EventOnlineUsers     = "online-users"
	EventUserTyping      = "user-typing"
	EventUserStopTyping  = "user-stop-typing"
	EventIncomingCall    = "incoming-call"
	EventCallAnswered    = "call-answered"
	EventCallRejected    = "call-rejected"
	EventCallEnded       = "call-ended"
	EventCallFailed      = "call-failed"
	EventNewMessage      = "new-message"
	EventNewNotification = "new-notification"
	EventNewPoll         = "new-poll"
	EventPollUpdated     = "poll-updated"
)

// Presence statuses a user can carry in a room.
const (
	StatusOnline       = "online"
	StatusAway         = "away"
	StatusBusy         = "busy"
	StatusDoNotDisturb = "dnd"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusOnline, StatusAway, StatusBusy, StatusDoNotDisturb:
		return true
	}
	return false
}

// Event is the envelope for every push to a client. Room is set on
// room-scoped events so a client subscribed to several projects can tell
// them apart.
type Event struct {
	Event string      `json:"event"`
	Room  string      `json:"room,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// User is the identity a client announces when joining a room. The
// coordinator treats it as opaque beyond ID and Status.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Status    string `json:"status,omitempty"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type TypingPayload struct {
	UserID    int    `json:"userId"`
	FirstName string `json:"first_name,omitempty"`
}

type IncomingCallPayload struct {
	CallerName string `json:"callerName"`
	CallerID   int    `json:"callerId"`
	// CallerConnectionID lets the callee address its answer to the exact
	// caller session, not just the caller's user id.
	CallerConnectionID string `json:"callerConnectionId"`
	ChannelToken       string `json:"channelToken"`
	Room               string `json:"room"`
}

type CallAnsweredPayload struct {
	ChannelToken string `json:"channelToken"`
}

type CallRejectedPayload struct {
	Reason string `json:"reason"`
}

type CallFailedPayload struct {
	Message string `json:"message"`
}

// NotificationAlertPayload names the user whose inbox just grew. Clients
// filter on the id and refetch their notifications when it matches.
type NotificationAlertPayload struct {
	UserID int `json:"userId"`
}
