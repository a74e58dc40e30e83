package realtime

import "log"

// Call signaling is a pure relay: invite, answer, reject and end are routed
// by resolving the counterparty's connection at the moment each event
// arrives. Nothing is cached across the call lifetime, so a party that
// reconnects mid-ring is still reachable through its new connection. The
// media itself travels through the external RTC provider; the channel token
// is opaque here and only correlates one invite/answer/reject/end exchange.

// InitiateCall rings the target user's current connection in the room. When
// the target has no live presence there, only the caller's own connection
// hears about it, as a call-failed event.
func (co *Coordinator) InitiateCall(room string, callerID int, callerName string, targetUserID int, channelToken, callerConnID string) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	target := co.findClientLocked(room, targetUserID)
	if target == nil {
		log.Printf("call: user %d not reachable in room %s", targetUserID, room)
		if caller, ok := co.conns[callerConnID]; ok {
			co.sendEvent(caller, Event{
				Event: EventCallFailed,
				Room:  room,
				Data:  CallFailedPayload{Message: "User is not online"},
			})
		}
		return
	}

	log.Printf("call: %s (%d) ringing user %d in room %s", callerName, callerID, targetUserID, room)
	co.sendEvent(target, Event{
		Event: EventIncomingCall,
		Room:  room,
		Data: IncomingCallPayload{
			CallerName:         callerName,
			CallerID:           callerID,
			CallerConnectionID: callerConnID,
			ChannelToken:       channelToken,
			Room:               room,
		},
	})
}

// AnswerCall tells the caller its ring was picked up. If the caller dropped
// off while ringing there is nobody left to notify and the event is
// discarded.
func (co *Coordinator) AnswerCall(room string, callerUserID int, channelToken string) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	caller := co.findClientLocked(room, callerUserID)
	if caller == nil {
		log.Printf("call: answer for user %d in room %s dropped, caller gone", callerUserID, room)
		return
	}
	co.sendEvent(caller, Event{
		Event: EventCallAnswered,
		Room:  room,
		Data:  CallAnsweredPayload{ChannelToken: channelToken},
	})
}

// RejectCall tells the caller the callee declined.
func (co *Coordinator) RejectCall(room string, callerUserID int) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	caller := co.findClientLocked(room, callerUserID)
	if caller == nil {
		return
	}
	co.sendEvent(caller, Event{
		Event: EventCallRejected,
		Room:  room,
		Data:  CallRejectedPayload{Reason: "Call was declined"},
	})
}

// EndCall tells the other party the call is over.
func (co *Coordinator) EndCall(room string, targetUserID int) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	target := co.findClientLocked(room, targetUserID)
	if target == nil {
		return
	}
	co.sendEvent(target, Event{Event: EventCallEnded, Room: room})
}
