// Package session tracks the players connected to a server and keeps the
// shared leaderboard. Each game session runs on its own goroutine and talks
// to the hub only through a Handle.
package session

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/typesurvivors/internal/logging"
)

// MaxUsernameLength caps the display length of player names.
const MaxUsernameLength = 16

// EventType identifies an event sent from the hub to a session.
type EventType int

const (
	EventServerShutdown EventType = iota
	EventNewTopScore              // Someone took the top of the leaderboard
)

// Event is sent from the hub to a session.
type Event struct {
	Type     EventType
	Username string // For EventNewTopScore
	Score    int    // For EventNewTopScore
}

// Handle is a session's registration with the hub.
type Handle struct {
	ID       int
	Username string
	EventsCh chan Event
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Username string
	Score    int
	handleID int // Tie-break: earlier registrations rank first
}

// Hub is the registry of live sessions and the best score each one reached.
// It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	handles map[int]*Handle
	best    map[int]ScoreEntry
	nextID  int
	log     *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		handles: make(map[int]*Handle),
		best:    make(map[int]ScoreEntry),
		nextID:  1,
		log:     logging.OrDiscard(logger),
	}
}

// Register adds a session and returns its handle.
func (h *Hub) Register(username string) *Handle {
	username = truncateName(username)

	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &Handle{
		ID:       h.nextID,
		Username: username,
		EventsCh: make(chan Event, 16),
	}
	h.nextID++
	h.handles[handle.ID] = handle
	h.log.Info("session registered", "id", handle.ID, "user", username, "online", len(h.handles))
	return handle
}

// Unregister removes a session, closes its event channel and drops its
// leaderboard entry. Unknown ids are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.handles[id]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.handles, id)
	delete(h.best, id)
	h.log.Info("session unregistered", "id", id, "user", handle.Username, "online", len(h.handles))
}

// ReportScore records score for a session if it beats that session's best.
// A new overall top score is announced to every other session.
func (h *Hub) ReportScore(id, score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle, ok := h.handles[id]
	if !ok || score <= h.best[id].Score {
		return
	}
	top := h.topLocked()
	h.best[id] = ScoreEntry{Username: handle.Username, Score: score, handleID: id}
	if top.Score >= score {
		return
	}
	h.log.Info("new top score", "user", handle.Username, "score", score)
	for otherID, other := range h.handles {
		if otherID == id {
			continue
		}
		select {
		case other.EventsCh <- Event{Type: EventNewTopScore, Username: handle.Username, Score: score}:
		default:
		}
	}
}

func (h *Hub) topLocked() ScoreEntry {
	var top ScoreEntry
	for _, e := range h.best {
		if e.Score > top.Score {
			top = e
		}
	}
	return top
}

// TopScores returns up to n entries, best first.
func (h *Hub) TopScores(n int) []ScoreEntry {
	h.mu.RLock()
	entries := make([]ScoreEntry, 0, len(h.best))
	for _, e := range h.best {
		entries = append(entries, e)
	}
	h.mu.RUnlock()

	slices.SortFunc(entries, func(a, b ScoreEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.handleID, b.handleID)
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handles)
}

// Shutdown notifies every session that the server is going down and waits
// until they have all unregistered, or until timeout.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.handles {
		select {
		case handle.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			h.log.Warn("shutdown timed out", "remaining", h.Count())
			return
		case <-ticker.C:
		}
	}
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) > MaxUsernameLength {
		return string(runes[:MaxUsernameLength])
	}
	return name
}
