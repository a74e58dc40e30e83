package realtime

// NotifyTyping tells everyone else in the room that the user started typing.
// Fire and forget: no state, no delivery guarantee, and repeats are harmless.
func (co *Coordinator) NotifyTyping(room string, user User, connID string) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	co.broadcastLocked(room, Event{
		Event: EventUserTyping,
		Room:  room,
		Data:  TypingPayload{UserID: user.ID, FirstName: user.FirstName},
	}, connID)
}

// NotifyStopTyping clears the indicator for everyone else in the room.
func (co *Coordinator) NotifyStopTyping(room string, userID int, connID string) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	co.broadcastLocked(room, Event{
		Event: EventUserStopTyping,
		Room:  room,
		Data:  TypingPayload{UserID: userID},
	}, connID)
}
