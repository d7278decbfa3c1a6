// Package sse fan-outs vault change events to HTTP clients over
// Server-Sent Events. A single goroutine owns the subscriber set; all
// mutation goes through channels, so no locking is needed.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Event kinds published by the broker.
const (
	EventNoteCreated  = "note.created"
	EventNoteUpdated  = "note.updated"
	EventNoteDeleted  = "note.deleted"
	EventNoteRenamed  = "note.renamed"
	EventIndexRefresh = "index.refreshed"
)

// Event is one message pushed to subscribers.
type Event struct {
	Kind    string    `json:"kind"`
	Name    string    `json:"name,omitempty"`
	NewName string    `json:"new_name,omitempty"`
	Time    time.Time `json:"time"`
}

type client chan []byte

// Broker multiplexes events to any number of SSE subscribers. Slow clients
// are dropped rather than allowed to stall the loop.
type Broker struct {
	logger *slog.Logger

	publish     chan Event
	subscribe   chan client
	unsubscribe chan client
	done        chan struct{}
}

// NewBroker returns a broker; call Run to start its event loop.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger:      logger,
		publish:     make(chan Event, 64),
		subscribe:   make(chan client),
		unsubscribe: make(chan client),
		done:        make(chan struct{}),
	}
}

// Run drives the broker until ctx is cancelled.
func (b *Broker) Run(ctx context.Context) error {
	clients := make(map[client]struct{})
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				close(c)
			}
			return ctx.Err()
		case c := <-b.subscribe:
			clients[c] = struct{}{}
		case c := <-b.unsubscribe:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c)
			}
		case ev := <-b.publish:
			payload, err := json.Marshal(ev)
			if err != nil {
				b.logger.Error("sse: marshal event", "error", err)
				continue
			}
			for c := range clients {
				select {
				case c <- payload:
				default:
					delete(clients, c)
					close(c)
					b.logger.Warn("sse: dropped slow client")
				}
			}
		}
	}
}

// Publish queues an event; it is discarded if the buffer is full or the
// broker has stopped.
func (b *Broker) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	select {
	case b.publish <- ev:
	case <-b.done:
	default:
		b.logger.Warn("sse: event buffer full, dropping", "kind", ev.Kind)
	}
}

// ServeHTTP streams events to one client until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := make(client, 16)
	select {
	case b.subscribe <- c:
	case <-b.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case b.unsubscribe <- c:
		case <-b.done:
		}
	}()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case payload, ok := <-c:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
