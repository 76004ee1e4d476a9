package service

import (
	"sync"
	"testing"

	"github.com/rl1809/techmart/internal/core/domain"
)

func TestSessionRegistry_OpenReusesSession(t *testing.T) {
	r := NewSessionRegistry(0, 0, SessionHooks{})
	defer r.CloseAll()

	s := r.New()
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
	if r.Open(s.ID) != s {
		t.Error("Open should return the live session")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 session, got %d", r.Len())
	}
}

func TestSessionRegistry_ReloadResetsTransientState(t *testing.T) {
	var closed []string
	var mu sync.Mutex
	r := NewSessionRegistry(0, 0, SessionHooks{Closed: func(id string) {
		mu.Lock()
		closed = append(closed, id)
		mu.Unlock()
	}})
	defer r.CloseAll()

	s := r.Open("page-1")
	s.toggleWishlist("phone")
	s.showSuggestions([]string{"iPhone"})
	s.beginContact()

	fresh := r.Reload("page-1")
	if fresh == s {
		t.Fatal("reload should create a new session")
	}
	if s.Context().Err() == nil {
		t.Error("old session context should be done")
	}

	view := fresh.snapshot()
	if len(view.Wishlist) != 0 || view.Suggestions.Visible || view.ContactBusy {
		t.Errorf("expected empty transient state, got %+v", view)
	}
	if len(closed) != 1 || closed[0] != "page-1" {
		t.Errorf("close hook should run once, got %v", closed)
	}
}

func TestSessionRegistry_Close(t *testing.T) {
	calls, opened := 0, 0
	r := NewSessionRegistry(0, 0, SessionHooks{
		Opened: func(string) { opened++ },
		Closed: func(string) { calls++ },
	})

	s := r.Open("page")
	r.Close("page")
	r.Close("page")
	r.Close("never-opened")

	if calls != 1 || opened != 1 {
		t.Errorf("expected 1 open and 1 close hook call, got %d and %d", opened, calls)
	}
	if s.Context().Err() == nil {
		t.Error("closed session context should be done")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}

func TestSession_InsertedOverlaysCloseOnDismiss(t *testing.T) {
	s := newTestSession()
	defer s.close()

	s.observeInserted([]domain.Element{
		{ID: "quick-view", Tag: "div", Classes: []string{"modal"}, Children: []domain.Element{
			{ID: "quick-view-close", Tag: "button"},
		}},
		{ID: "menu", Tag: "ul", Classes: []string{"dropdown-menu"}},
	})

	view := s.snapshot()
	if len(view.OpenOverlays) != 2 || view.Focused != "quick-view-close" {
		t.Errorf("unexpected view: %+v", view)
	}

	s.closeOverlays()
	if got := s.snapshot().OpenOverlays; len(got) != 0 {
		t.Errorf("expected all overlays closed, got %v", got)
	}
}
