package sse

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBroker_DeliversEvents(t *testing.T) {
	broker := NewBroker(slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broker.Run(ctx) //nolint:errcheck

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)
	reqCtx, reqCancel := context.WithCancel(context.Background())
	req = req.WithContext(reqCtx)

	done := make(chan struct{})
	go func() {
		broker.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the subscription a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)
	broker.Publish(Event{Kind: EventNoteCreated, Name: "New Note"})
	time.Sleep(50 * time.Millisecond)

	reqCancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after disconnect")
	}

	body := rec.Body.String()
	if !strings.Contains(body, ": connected") {
		t.Errorf("missing hello comment: %q", body)
	}
	if !strings.Contains(body, `"kind":"note.created"`) || !strings.Contains(body, `"name":"New Note"`) {
		t.Errorf("event not delivered: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}

func TestBroker_ShutdownClosesClients(t *testing.T) {
	broker := NewBroker(slog.Default())
	ctx, cancel := context.WithCancel(context.Background())

	runDone := make(chan struct{})
	go func() {
		broker.Run(ctx) //nolint:errcheck
		close(runDone)
	}()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)

	handlerDone := make(chan struct{})
	go func() {
		broker.ServeHTTP(rec, req)
		close(handlerDone)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-handlerDone:
	case <-time.After(time.Second):
		t.Fatal("handler did not return on broker shutdown")
	}
	<-runDone

	// Publishing after shutdown must not block or panic.
	broker.Publish(Event{Kind: EventIndexRefresh})
}
