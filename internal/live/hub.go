// Package live streams study-session events over WebSocket so a second
// device (or a tutor dashboard) can follow a session in real time.
package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one session update pushed to subscribers.
type Event struct {
	SessionToken string    `json:"session_token"`
	Type         string    `json:"type"` // "answer", "completed"
	CardID       uint      `json:"card_id,omitempty"`
	Correct      bool      `json:"correct,omitempty"`
	Position     int       `json:"position"`
	Total        int       `json:"total"`
	At           time.Time `json:"at"`
}

// Hub fans session events out to WebSocket subscribers. Sessions with no
// subscribers cost nothing; Publish never blocks on slow clients.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{} // session token → subscribers
}

type subscriber struct {
	send chan Event
}

const sendBuffer = 16

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Publish delivers an event to every subscriber of its session. Slow
// subscribers are dropped rather than blocking the caller.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[ev.SessionToken] {
		select {
		case sub.send <- ev:
		default:
			// Buffer full: subscriber is too slow, skip this event.
		}
	}
}

func (h *Hub) subscribe(token string) *subscriber {
	sub := &subscriber{send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	if h.subs[token] == nil {
		h.subs[token] = make(map[*subscriber]struct{})
	}
	h.subs[token][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(token string, sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[token]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, token)
		}
	}
	h.mu.Unlock()
}

// SubscriberCount reports active subscribers for a session.
func (h *Hub) SubscriberCount(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[token])
}

// writeWait bounds how long a single WebSocket write may take.
const writeWait = 10 * time.Second

// stream pumps events to one WebSocket connection until it closes.
func (h *Hub) stream(conn *websocket.Conn, token string) {
	sub := h.subscribe(token)
	defer func() {
		h.unsubscribe(token, sub)
		_ = conn.Close()
	}()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
