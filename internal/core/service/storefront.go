package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

type Timing struct {
	SearchDebounce      time.Duration
	SuggestionHideDelay time.Duration
	NotificationDisplay time.Duration
	NotificationExit    time.Duration
	NewsletterDelay     time.Duration
	ContactDelay        time.Duration
}

type Dependencies struct {
	Cache     port.CacheRepository
	Catalog   port.CatalogRepository
	Logger    *zap.Logger
	Timing    Timing
	QueueSize int
}

// Storefront wires every page module together and owns their shared state.
type Storefront struct {
	Sessions      *SessionRegistry
	Notifications *NotificationCenter
	Cart          *CartService
	Catalog       *CatalogService
	Shortlist     *ShortlistService
	Search        *SearchService
	Forms         *FormService
	Input         *InputDispatcher

	logger *zap.Logger
}

func NewStorefront(deps Dependencies) *Storefront {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []NotificationOption{WithNotificationLogger(logger.Named("notifications"))}
	if deps.Timing.NotificationDisplay > 0 {
		opts = append(opts, WithDisplayDuration(deps.Timing.NotificationDisplay))
	}
	if deps.Timing.NotificationExit > 0 {
		opts = append(opts, WithExitDuration(deps.Timing.NotificationExit))
	}
	notifications := NewNotificationCenter(opts...)

	f := &Storefront{
		Sessions: NewSessionRegistry(deps.Timing.SearchDebounce, deps.Timing.SuggestionHideDelay, SessionHooks{
			Opened: notifications.Open,
			Closed: notifications.Reset,
		}),
		Notifications: notifications,
		Cart:          NewCartService(deps.Cache, notifications, logger.Named("cart")),
		Catalog:       NewCatalogService(deps.Catalog),
		Shortlist:     NewShortlistService(notifications),
		Search:        NewSearchService(notifications, nil, nil),
		Forms: NewFormService(FormConfig{
			NewsletterDelay: deps.Timing.NewsletterDelay,
			ContactDelay:    deps.Timing.ContactDelay,
			QueueSize:       deps.QueueSize,
		}, NewFormValidator(), deps.Cache, notifications, logger.Named("forms")),
		Input:  NewInputDispatcher(),
		logger: logger,
	}
	f.bindInput()
	return f
}

func (f *Storefront) bindInput() {
	f.Input.Activate("add-to-cart", f.activateAddToCart)
	f.Input.Activate("cta-button", activateLink)
	f.Input.Activate("category-link", activateLink)

	f.Input.Handle(ActionDismiss, func(_ context.Context, s *Session, _ Event) (DispatchResult, error) {
		s.hideSuggestions()
		s.closeOverlays()
		return DispatchResult{}, nil
	})
	f.Input.Handle(ActionInput, func(_ context.Context, s *Session, ev Event) (DispatchResult, error) {
		if isSearchField(ev.Target) {
			f.Search.Input(s, ev.Value)
		}
		return DispatchResult{}, nil
	})
	f.Input.Handle(ActionBlur, func(_ context.Context, s *Session, ev Event) (DispatchResult, error) {
		if isSearchField(ev.Target) {
			f.Search.Blur(s)
		}
		if form, _ := ev.Target.Attr("data-form"); form == "contact" {
			r := f.Forms.ValidateField(fieldFromElement(ev.Target, ev.Value))
			return DispatchResult{Field: &r}, nil
		}
		return DispatchResult{}, nil
	})
	f.Input.Handle(ActionInsert, func(_ context.Context, s *Session, ev Event) (DispatchResult, error) {
		s.observeInserted(ev.Nodes)
		return DispatchResult{}, nil
	})
}

func (f *Storefront) activateAddToCart(ctx context.Context, s *Session, ev Event) (DispatchResult, error) {
	id, _ := ev.Target.Attr("data-product-id")
	name, _ := ev.Target.Attr("data-product-name")
	rawPrice, _ := ev.Target.Attr("data-product-price")

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return DispatchResult{}, ErrInvalidItem
	}
	count, err := f.Cart.AddToCart(ctx, s.ID, domain.CartItem{ID: id, Name: name, Price: price, Quantity: 1})
	if err != nil {
		return DispatchResult{}, err
	}
	return DispatchResult{CartCount: &count}, nil
}

func activateLink(_ context.Context, _ *Session, ev Event) (DispatchResult, error) {
	if href, ok := ev.Target.Attr("href"); ok {
		return DispatchResult{Navigate: href}, nil
	}
	href, _ := ev.Target.Attr("data-href")
	return DispatchResult{Navigate: href}, nil
}

// fieldFromElement reads a form control's validation inputs from its markup.
func fieldFromElement(e domain.Element, value string) domain.FormField {
	name, _ := e.Attr("name")
	fieldType, _ := e.Attr("type")
	label, _ := e.Attr("data-label")
	_, required := e.Attr("required")
	return domain.FormField{
		Name:     name,
		ID:       e.ID,
		Label:    label,
		Type:     domain.FieldType(fieldType),
		Value:    value,
		Required: required,
	}
}

func isSearchField(e domain.Element) bool {
	t, _ := e.Attr("type")
	return t == "search"
}

// View is the full page state of a session, including its toasts and live region.
func (f *Storefront) View(session *Session) SessionView {
	view := session.snapshot()
	region := f.Notifications.LiveRegion(session.ID)
	view.LiveRegion = LiveRegionView{
		Text:       region.Text(),
		Politeness: region.Politeness(),
		Atomic:     region.Atomic(),
	}
	view.Notifications = f.Notifications.Active(session.ID)
	return view
}

// Close tears down every session and stops accepting submissions.
func (f *Storefront) Close() {
	open := f.Sessions.Len()
	f.Sessions.CloseAll()
	f.Forms.Close()
	f.logger.Info("storefront closed", zap.Int("sessions", open))
}
