package realtime

import (
	"log"
	"sync"
)

// Sink is the write half of one live transport connection. *websocket.Conn
// satisfies it; tests substitute an in-memory recorder.
type Sink interface {
	WriteJSON(v interface{}) error
}

// client pairs a connection id with its sink. Writes are serialized per
// connection because the underlying websocket conn does not tolerate
// concurrent writers.
type client struct {
	id   string
	sink Sink
	wmu  sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.sink.WriteJSON(v)
}

type presenceEntry struct {
	user   User
	connID string
}

// Coordinator owns all live-connection state: which connections exist, which
// rooms each subscribes to, and which user each room shows as present.
// Constructed once at startup and injected into the transport and REST
// layers; there is no package-level instance.
//
// One mutex serializes every mutation, so a join followed by a status change
// from the same connection always observes the entry the join created.
// Nothing persists across restarts and nothing here blocks on I/O beyond the
// best-effort socket writes.
type Coordinator struct {
	mu sync.RWMutex

	// conns holds every registered connection, live until Unregister.
	conns map[string]*client
	// rooms maps room id to subscribed connections (fan-out targets).
	rooms map[string]map[string]*client
	// presence maps room id -> user id -> current entry. At most one entry
	// per (room, user): a rejoin overwrites, which is what keeps multi-tab
	// and reconnect sessions from showing up twice.
	presence map[string]map[int]*presenceEntry
	// roomIndex maps conn id to the rooms it joined, so disconnect cleanup
	// does not scan every room.
	roomIndex map[string]map[string]struct{}
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		conns:     make(map[string]*client),
		rooms:     make(map[string]map[string]*client),
		presence:  make(map[string]map[int]*presenceEntry),
		roomIndex: make(map[string]map[string]struct{}),
	}
}

// Register adds a connection on transport open.
func (co *Coordinator) Register(connID string, sink Sink) {
	co.mu.Lock()
	defer co.mu.Unlock()
	co.conns[connID] = &client{id: connID, sink: sink}
}

// Unregister removes a connection on transport close. Every room the
// connection had joined gets the same owner-matched eviction as Leave: a
// presence entry is deleted only if this connection still owns it, so a
// stale disconnect arriving after the user reconnected on a new connection
// never knocks the fresh session offline.
func (co *Coordinator) Unregister(connID string) {
	co.mu.Lock()
	defer co.mu.Unlock()

	for room := range co.roomIndex[connID] {
		removed := co.removePresenceLocked(room, connID)
		co.unsubscribeLocked(room, connID)
		if removed {
			co.broadcastOnlineUsersLocked(room)
		}
	}
	delete(co.roomIndex, connID)
	delete(co.conns, connID)
}

// ConnectionCount reports the number of registered connections.
func (co *Coordinator) ConnectionCount() int {
	co.mu.RLock()
	defer co.mu.RUnlock()
	return len(co.conns)
}

func (co *Coordinator) subscribeLocked(room, connID string) {
	cl, ok := co.conns[connID]
	if !ok {
		return
	}
	if co.rooms[room] == nil {
		co.rooms[room] = make(map[string]*client)
	}
	co.rooms[room][connID] = cl
}

func (co *Coordinator) unsubscribeLocked(room, connID string) {
	if subs, ok := co.rooms[room]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(co.rooms, room)
		}
	}
}

// removePresenceLocked deletes the presence entry in room owned by connID.
// Entries owned by other connections are left alone.
func (co *Coordinator) removePresenceLocked(room, connID string) bool {
	users := co.presence[room]
	for uid, e := range users {
		if e.connID == connID {
			delete(users, uid)
			if len(users) == 0 {
				delete(co.presence, room)
			}
			return true
		}
	}
	return false
}

// findClientLocked resolves the live connection currently representing a
// user in a room. An entry whose recorded connection is no longer registered
// resolves to nil; liveness is checked against the registry, not assumed
// from the handle.
func (co *Coordinator) findClientLocked(room string, userID int) *client {
	e := co.presence[room][userID]
	if e == nil {
		return nil
	}
	return co.conns[e.connID]
}

// broadcastLocked pushes evt to every subscriber of room except
// excludeConnID. Best effort: a failed write is logged and the remaining
// subscribers still get their copy.
func (co *Coordinator) broadcastLocked(room string, evt Event, excludeConnID string) {
	for id, cl := range co.rooms[room] {
		if id == excludeConnID {
			continue
		}
		if err := cl.send(evt); err != nil {
			log.Printf("broadcast %s to %s: %v", evt.Event, id, err)
		}
	}
}

// SendTo pushes an event to one connection, if it is still registered.
func (co *Coordinator) SendTo(connID string, evt Event) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	if cl, ok := co.conns[connID]; ok {
		co.sendEvent(cl, evt)
	}
}

func (co *Coordinator) sendEvent(cl *client, evt Event) {
	if err := cl.send(evt); err != nil {
		log.Printf("send %s to %s: %v", evt.Event, cl.id, err)
	}
}
