package realtime

// Join subscribes the connection to the room and records the user as present
// there, overwriting any previous entry for the same user. Last writer wins
// on purpose: a reconnect or second tab replaces the old session instead of
// duplicating it. The room's updated online list is pushed to all
// subscribers.
func (co *Coordinator) Join(room string, user User, connID string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if _, ok := co.conns[connID]; !ok {
		return // transport already gone
	}
	if user.Status == "" {
		user.Status = StatusOnline
	}

	co.subscribeLocked(room, connID)

	if co.presence[room] == nil {
		co.presence[room] = make(map[int]*presenceEntry)
	}
	co.presence[room][user.ID] = &presenceEntry{user: user, connID: connID}

	if co.roomIndex[connID] == nil {
		co.roomIndex[connID] = make(map[string]struct{})
	}
	co.roomIndex[connID][room] = struct{}{}

	co.broadcastOnlineUsersLocked(room)
}

// SetStatus updates the status of whichever presence entry in the room is
// owned by connID. A connection with no entry there is a no-op, not an
// error. Rooms hold tens of users, so the linear scan is fine.
func (co *Coordinator) SetStatus(room, connID, status string) {
	if !ValidStatus(status) {
		return
	}

	co.mu.Lock()
	defer co.mu.Unlock()

	for _, e := range co.presence[room] {
		if e.connID == connID {
			e.user.Status = status
			co.broadcastOnlineUsersLocked(room)
			return
		}
	}
}

// Leave unsubscribes the connection from the room and deletes the presence
// entry it owns there, if any. The room index entry is dropped either way.
func (co *Coordinator) Leave(room, connID string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	co.unsubscribeLocked(room, connID)

	removed := co.removePresenceLocked(room, connID)

	if idx := co.roomIndex[connID]; idx != nil {
		delete(idx, room)
		if len(idx) == 0 {
			delete(co.roomIndex, connID)
		}
	}

	if removed {
		co.broadcastOnlineUsersLocked(room)
	}
}

// ListUsers returns a snapshot of the users currently present in the room.
// Order is not significant.
func (co *Coordinator) ListUsers(room string) []User {
	co.mu.RLock()
	defer co.mu.RUnlock()
	return co.onlineUsersLocked(room)
}

// FindConnectionID reports which live connection currently represents the
// user in the room, if any.
func (co *Coordinator) FindConnectionID(room string, userID int) (string, bool) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	cl := co.findClientLocked(room, userID)
	if cl == nil {
		return "", false
	}
	return cl.id, true
}

func (co *Coordinator) onlineUsersLocked(room string) []User {
	users := make([]User, 0, len(co.presence[room]))
	for _, e := range co.presence[room] {
		users = append(users, e.user)
	}
	return users
}

func (co *Coordinator) broadcastOnlineUsersLocked(room string) {
	co.broadcastLocked(room, Event{
		Event: EventOnlineUsers,
		Room:  room,
		Data:  co.onlineUsersLocked(room),
	}, "")
}
