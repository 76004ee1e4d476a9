package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/techmart/internal/core/domain"
)

const (
	maxCompare = 3

	defaultSearchDebounce      = 300 * time.Millisecond
	defaultSuggestionHideDelay = 200 * time.Millisecond
)

var overlayClasses = []string{"modal", "overlay", "dropdown-menu"}

type SuggestionBox struct {
	Visible bool     `json:"visible"`
	Items   []string `json:"items"`
}

type CompareButton struct {
	Visible bool   `json:"visible"`
	Label   string `json:"label,omitempty"`
}

type LiveRegionView struct {
	Text       string `json:"text"`
	Politeness string `json:"politeness"`
	Atomic     bool   `json:"atomic"`
}

// SessionView is a snapshot of everything the page shows for a session.
type SessionView struct {
	ID            string                `json:"id"`
	SearchValue   string                `json:"search_value"`
	Suggestions   SuggestionBox         `json:"suggestions"`
	Compare       []string              `json:"compare"`
	CompareButton CompareButton         `json:"compare_button"`
	Wishlist      []string              `json:"wishlist"`
	OpenOverlays  []string              `json:"open_overlays"`
	Focused       string                `json:"focused,omitempty"`
	ContactBusy   bool                  `json:"contact_busy"`
	LiveRegion    LiveRegionView        `json:"live_region"`
	Notifications []domain.Notification `json:"notifications"`
}

type compareEntry struct {
	ID   string
	Name string
}

// Session is the transient state of one open storefront page. The persisted
// cart is not part of it and survives a reload.
type Session struct {
	ID string

	ctx    context.Context
	cancel context.CancelFunc

	suggestDebounce *Debouncer
	suggestHide     *Debouncer

	mu          sync.Mutex
	searchValue string
	suggestions SuggestionBox
	wishlist    map[string]bool
	compare     []compareEntry
	overlays    map[string]bool
	focused     string
	contactBusy bool
}

func newSession(id string, debounce, hideDelay time.Duration) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:              id,
		ctx:             ctx,
		cancel:          cancel,
		suggestDebounce: NewDebouncer(ctx, debounce),
		suggestHide:     NewDebouncer(ctx, hideDelay),
		wishlist:        make(map[string]bool),
		overlays:        make(map[string]bool),
	}
}

// Context is done when the page is reloaded or closed.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) close() {
	s.cancel()
	s.suggestDebounce.Cancel()
	s.suggestHide.Cancel()
}

func (s *Session) showSuggestions(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions = SuggestionBox{Visible: true, Items: items}
}

func (s *Session) hideSuggestions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions.Visible = false
}

func (s *Session) setSearchValue(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchValue = v
}

// toggleWishlist flips the product's mark and reports whether it is now set.
func (s *Session) toggleWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wishlist[productID] {
		delete(s.wishlist, productID)
		return false
	}
	s.wishlist[productID] = true
	return true
}

// toggleCompare removes a member or appends a new one. A full set is left unchanged.
func (s *Session) toggleCompare(p domain.Product) (added bool, inserted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.compare {
		if e.ID == p.ID {
			s.compare = append(s.compare[:i], s.compare[i+1:]...)
			return false, false, nil
		}
	}
	if len(s.compare) >= maxCompare {
		return false, false, ErrCompareFull
	}
	s.compare = append(s.compare, compareEntry{ID: p.ID, Name: p.Name})
	return true, len(s.compare) == 1, nil
}

func (s *Session) comparedIDs() []string {
	ids := make([]string, 0, len(s.compare))
	for _, e := range s.compare {
		ids = append(ids, e.ID)
	}
	return ids
}

func (s *Session) compareButtonLocked() CompareButton {
	if len(s.compare) == 0 {
		return CompareButton{}
	}
	return CompareButton{Visible: true, Label: fmt.Sprintf("Compare Products (%d)", len(s.compare))}
}

// compareButtonElement is the floating action inserted when the first product is compared.
func compareButtonElement(label string) domain.Element {
	return domain.Element{
		Tag:     "div",
		Classes: []string{"compare-button"},
		Children: []domain.Element{
			{ID: "compare-button-action", Tag: "button", Attrs: map[string]string{"data-action": "open-comparison", "aria-label": label}},
		},
	}
}

// observeInserted registers newly shown overlays and moves focus into the first inserted node.
func (s *Session) observeInserted(nodes []domain.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range nodes {
		for _, class := range overlayClasses {
			if n.HasClass(class) && n.ID != "" {
				s.overlays[n.ID] = true
			}
		}
	}
	if target, ok := focusTarget(nodes); ok && target.ID != "" {
		s.focused = target.ID
	}
}

func (s *Session) closeOverlays() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.overlays {
		s.overlays[id] = false
	}
}

// beginContact marks the contact form disabled; it fails while a submission is running.
func (s *Session) beginContact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contactBusy {
		return false
	}
	s.contactBusy = true
	return true
}

func (s *Session) endContact() {
	s.mu.Lock()
	s.contactBusy = false
	s.mu.Unlock()
}

func (s *Session) snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	wishlist := make([]string, 0, len(s.wishlist))
	for id := range s.wishlist {
		wishlist = append(wishlist, id)
	}
	sort.Strings(wishlist)

	open := make([]string, 0, len(s.overlays))
	for id, isOpen := range s.overlays {
		if isOpen {
			open = append(open, id)
		}
	}
	sort.Strings(open)

	items := append([]string{}, s.suggestions.Items...)
	return SessionView{
		ID:            s.ID,
		SearchValue:   s.searchValue,
		Suggestions:   SuggestionBox{Visible: s.suggestions.Visible, Items: items},
		Compare:       s.comparedIDs(),
		CompareButton: s.compareButtonLocked(),
		Wishlist:      wishlist,
		OpenOverlays:  open,
		Focused:       s.focused,
		ContactBusy:   s.contactBusy,
	}
}

// SessionHooks run under the registry lock when a session is created or torn down.
type SessionHooks struct {
	Opened func(sessionID string)
	Closed func(sessionID string)
}

type SessionRegistry struct {
	debounce  time.Duration
	hideDelay time.Duration
	hooks     SessionHooks

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(debounce, hideDelay time.Duration, hooks SessionHooks) *SessionRegistry {
	if debounce <= 0 {
		debounce = defaultSearchDebounce
	}
	if hideDelay <= 0 {
		hideDelay = defaultSuggestionHideDelay
	}
	if hooks.Opened == nil {
		hooks.Opened = func(string) {}
	}
	if hooks.Closed == nil {
		hooks.Closed = func(string) {}
	}
	return &SessionRegistry{
		debounce:  debounce,
		hideDelay: hideDelay,
		hooks:     hooks,
		sessions:  make(map[string]*Session),
	}
}

// New opens a page session under a fresh id.
func (r *SessionRegistry) New() *Session {
	return r.Open(uuid.NewString())
}

// Open returns the live session for id, creating it when the page is first seen.
func (r *SessionRegistry) Open(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := newSession(id, r.debounce, r.hideDelay)
	r.sessions[id] = s
	r.hooks.Opened(id)
	return s
}

// Reload tears the page down and opens it again with empty transient state.
func (r *SessionRegistry) Reload(id string) *Session {
	r.Close(id)
	return r.Open(id)
}

func (r *SessionRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	s.close()
	r.hooks.Closed(id)
}

// CloseAll tears down every session, used at shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Close(id)
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
