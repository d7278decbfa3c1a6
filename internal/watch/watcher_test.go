package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_FiresOnceAfterBurst(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 16)
	w := New(dir, slog.Default(), func(context.Context) {
		fired <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx) //nolint:errcheck

	// Let the watch set register before writing.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "note.md")
		if err := os.WriteFile(name, []byte("v\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange never fired")
	}

	// The burst settles into one callback; allow a generous window for a
	// single trailing fire but not a stream of them.
	extra := 0
	timeout := time.After(500 * time.Millisecond)
drain:
	for {
		select {
		case <-fired:
			extra++
		case <-timeout:
			break drain
		}
	}
	if extra > 1 {
		t.Errorf("onChange fired %d extra times after debounce", extra+1)
	}
}

func TestWatcher_IgnoresHiddenAndTempPaths(t *testing.T) {
	w := New("/vault", slog.Default(), nil)
	for _, tc := range []struct {
		path string
		want bool
	}{
		{"/vault/note.md", false},
		{"/vault/sub/note.md", false},
		{"/vault/.trash/gone.md", true},
		{"/vault/.obsidian/cache", true},
		{"/vault/.raido-tmp-123", true},
		{"/vault/sub/.raido-tmp-9", true},
	} {
		if got := w.ignored(tc.path); got != tc.want {
			t.Errorf("ignored(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
