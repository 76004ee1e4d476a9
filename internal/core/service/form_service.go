package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

const (
	defaultNewsletterDelay = time.Second
	defaultContactDelay    = 2 * time.Second

	msgNewsletterDone = "Successfully subscribed to newsletter!"
	msgContactDone    = "Message sent successfully! We'll get back to you soon."
	msgInvalidPromo   = "Invalid promo code"
)

var DefaultPromoCodes = map[string]domain.PromoCode{
	"SAVE10":  {Code: "SAVE10", Discount: decimal.NewFromInt(10), Type: domain.PromoPercentage},
	"WELCOME": {Code: "WELCOME", Discount: decimal.NewFromInt(25), Type: domain.PromoFixed},
	"FIRST50": {Code: "FIRST50", Discount: decimal.NewFromInt(50), Type: domain.PromoFixed},
}

// Operation is a simulated submission in flight. Done is closed once it
// completed or its session went away.
type Operation struct {
	done chan struct{}
	err  error
}

func newOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

func (o *Operation) finish(err error) {
	o.err = err
	close(o.done)
}

func (o *Operation) Done() <-chan struct{} { return o.done }

// Err is valid after Done is closed.
func (o *Operation) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the operation finishes or ctx is done.
func (o *Operation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type FormConfig struct {
	NewsletterDelay time.Duration
	ContactDelay    time.Duration
	QueueSize       int
}

type FormService struct {
	validator *FormValidator
	cache     port.CacheRepository
	notifier  Notifier
	logger    *zap.Logger
	promos    map[string]domain.PromoCode

	newsletterDelay time.Duration
	contactDelay    time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Submission
}

func NewFormService(cfg FormConfig, validator *FormValidator, cache port.CacheRepository, notifier Notifier, logger *zap.Logger) *FormService {
	if cfg.NewsletterDelay <= 0 {
		cfg.NewsletterDelay = defaultNewsletterDelay
	}
	if cfg.ContactDelay <= 0 {
		cfg.ContactDelay = defaultContactDelay
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{
		validator:       validator,
		cache:           cache,
		notifier:        notifier,
		logger:          logger,
		promos:          DefaultPromoCodes,
		newsletterDelay: cfg.NewsletterDelay,
		contactDelay:    cfg.ContactDelay,
		queue:           make(chan domain.Submission, cfg.QueueSize),
	}
}

func (s *FormService) ValidateField(field domain.FormField) domain.FieldResult {
	return s.validator.ValidateField(field)
}

// SubscribeNewsletter accepts the address and completes after the processing delay.
func (s *FormService) SubscribeNewsletter(ctx context.Context, session *Session, email, idempotencyKey string) (*Operation, []domain.FieldResult, error) {
	field := domain.FormField{Name: "email", Label: "Email", Type: domain.FieldEmail, Value: email, Required: true}
	if r := s.validator.ValidateField(field); !r.Valid {
		return nil, []domain.FieldResult{r}, ErrValidation
	}
	if err := s.checkDuplicate(ctx, domain.SubmissionNewsletter, idempotencyKey); err != nil {
		return nil, nil, err
	}

	sub := domain.Submission{
		ID:        uuid.NewString(),
		Kind:      domain.SubmissionNewsletter,
		SessionID: session.ID,
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now(),
	}
	op := s.after(session, s.newsletterDelay, func() {
		s.notifier.Notify(session.ID, msgNewsletterDone, domain.NotificationSuccess)
		s.enqueue(session.Context(), sub)
	}, nil)
	return op, nil, nil
}

// SubmitContact validates the form and, when valid, keeps it disabled for the processing delay.
func (s *FormService) SubmitContact(ctx context.Context, session *Session, form domain.Form, idempotencyKey string) (*Operation, []domain.FieldResult, error) {
	ok, results := s.validator.ValidateContactForm(form)
	if !ok {
		return nil, results, ErrValidation
	}
	if err := s.checkDuplicate(ctx, domain.SubmissionContact, idempotencyKey); err != nil {
		return nil, results, err
	}
	if !session.beginContact() {
		return nil, results, ErrFormBusy
	}

	fields := make(map[string]string, len(form.Fields))
	for _, f := range form.Fields {
		fields[f.Name] = f.Value
	}
	sub := domain.Submission{
		ID:        uuid.NewString(),
		Kind:      domain.SubmissionContact,
		SessionID: session.ID,
		Email:     strings.TrimSpace(form.Value("email")),
		Fields:    fields,
		CreatedAt: time.Now(),
	}
	op := s.after(session, s.contactDelay, func() {
		s.notifier.Notify(session.ID, msgContactDone, domain.NotificationSuccess)
		s.enqueue(session.Context(), sub)
	}, session.endContact)
	return op, results, nil
}

// ApplyPromo looks the code up case-insensitively. The cart total is left as is.
func (s *FormService) ApplyPromo(session *Session, code string) (domain.PromoCode, bool) {
	promo, ok := s.promos[strings.ToUpper(code)]
	if !ok {
		s.notifier.Notify(session.ID, msgInvalidPromo, domain.NotificationError)
		return domain.PromoCode{}, false
	}
	s.notifier.Notify(session.ID, fmt.Sprintf("Promo code applied! You saved $%s", promo.Discount.String()), domain.NotificationSuccess)
	return promo, true
}

func (s *FormService) checkDuplicate(ctx context.Context, kind domain.SubmissionKind, key string) error {
	if key == "" {
		return nil
	}
	ok, err := s.cache.SetIdempotency(ctx, fmt.Sprintf("submission:%s:%s", kind, key))
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return ErrDuplicateSubmission
	}
	return nil
}

func (s *FormService) after(session *Session, delay time.Duration, fn func(), cleanup func()) *Operation {
	op := newOperation()
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		var err error
		select {
		case <-session.Context().Done():
			err = ErrSessionClosed
		case <-timer.C:
			fn()
		}
		if cleanup != nil {
			cleanup()
		}
		op.finish(err)
	}()
	return op
}

func (s *FormService) enqueue(ctx context.Context, sub domain.Submission) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Warn("submission dropped after shutdown", zap.String("submission_id", sub.ID))
		return
	}
	select {
	case s.queue <- sub:
	case <-ctx.Done():
		s.logger.Warn("submission dropped with its session", zap.String("submission_id", sub.ID))
	}
}

func (s *FormService) GetSubmissionQueue() <-chan domain.Submission {
	return s.queue
}

// Close stops accepting submissions and closes the queue so workers drain and exit.
func (s *FormService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}
