package handlers

import (
	"log"

	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/utils"
)

// ClientEvent is the envelope for everything a client sends over the socket.
// Room is the project id the event is scoped to.
type ClientEvent struct {
	Event        string         `json:"event"`
	Room         string         `json:"room,omitempty"`
	User         *realtime.User `json:"user,omitempty"`
	Status       string         `json:"status,omitempty"`
	TargetUserID int            `json:"target_user_id,omitempty"`
	CallerID     int            `json:"caller_id,omitempty"`
	CallerName   string         `json:"caller_name,omitempty"`
	ChannelToken string         `json:"channel_token,omitempty"`
}

// DispatchEvent routes one inbound socket event to the coordinator.
// Malformed events (missing room, user id, target) are dropped without
// touching any state; a buggy client must never corrupt presence.
func DispatchEvent(co *realtime.Coordinator, connID string, userID int, raw []byte) {
	var evt ClientEvent
	if err := utils.SafeJSONParse(raw, &evt); err != nil {
		utils.LogError(err, "ws event parse")
		return
	}

	switch evt.Event {
	case "join-room":
		if evt.Room == "" || evt.User == nil || evt.User.ID == 0 {
			return
		}
		co.Join(evt.Room, *evt.User, connID)

	case "set-status":
		if evt.Room == "" || evt.Status == "" {
			return
		}
		co.SetStatus(evt.Room, connID, evt.Status)

	case "leave-room":
		if evt.Room == "" {
			return
		}
		co.Leave(evt.Room, connID)

	case "typing":
		if evt.Room == "" || evt.User == nil || evt.User.ID == 0 {
			return
		}
		co.NotifyTyping(evt.Room, *evt.User, connID)

	case "stop-typing":
		if evt.Room == "" || evt.User == nil || evt.User.ID == 0 {
			return
		}
		co.NotifyStopTyping(evt.Room, evt.User.ID, connID)

	case "call-initiate":
		if evt.Room == "" || evt.TargetUserID == 0 {
			return
		}
		callerID := evt.CallerID
		if callerID == 0 {
			callerID = userID
		}
		co.InitiateCall(evt.Room, callerID, evt.CallerName, evt.TargetUserID, evt.ChannelToken, connID)

	case "call-answer":
		// TargetUserID here is the original caller being answered.
		if evt.Room == "" || evt.TargetUserID == 0 {
			return
		}
		co.AnswerCall(evt.Room, evt.TargetUserID, evt.ChannelToken)

	case "call-reject":
		if evt.Room == "" || evt.TargetUserID == 0 {
			return
		}
		co.RejectCall(evt.Room, evt.TargetUserID)

	case "call-end":
		if evt.Room == "" || evt.TargetUserID == 0 {
			return
		}
		co.EndCall(evt.Room, evt.TargetUserID)

	default:
		log.Printf("unknown ws event: %s", evt.Event)
	}
}
