package realtime

// Publish fans a freshly persisted chat message out to a room's subscribers.
// The REST layer calls this synchronously after its insert commits.
//
// excludeConnID is the optional X-Socket-Id hint from the originating
// client: when set, that connection is skipped because it already has the
// authoritative copy from the write response. When empty, everyone gets a
// copy and the originating client dedups by message id. The hint is
// voluntary, so its absence is tolerated rather than treated as an error.
func (co *Coordinator) Publish(room string, message interface{}, excludeConnID string) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	co.broadcastLocked(room, Event{
		Event: EventNewMessage,
		Room:  room,
		Data:  message,
	}, excludeConnID)
}

// NotifyUser announces to every live connection that userID has a new
// notification waiting. The push is process-wide rather than room-scoped
// because the target may not have joined any room yet; clients filter on
// the user id in the payload.
func (co *Coordinator) NotifyUser(userID int) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	evt := Event{
		Event: EventNewNotification,
		Data:  NotificationAlertPayload{UserID: userID},
	}
	for _, cl := range co.conns {
		co.sendEvent(cl, evt)
	}
}

// PublishEvent pushes an arbitrary room-scoped event to all subscribers.
// Used by the REST layer for poll creation and vote updates.
func (co *Coordinator) PublishEvent(room, event string, payload interface{}) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	co.broadcastLocked(room, Event{
		Event: event,
		Room:  room,
		Data:  payload,
	}, "")
}
