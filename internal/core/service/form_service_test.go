package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rl1809/techmart/internal/core/domain"
)

func newTestFormService(notifier Notifier, delay time.Duration) *FormService {
	return NewFormService(FormConfig{
		NewsletterDelay: delay,
		ContactDelay:    delay,
		QueueSize:       10,
	}, NewFormValidator(), newMockCacheRepo(), notifier, nil)
}

func validContactForm() domain.Form {
	return domain.Form{Name: "contact", Fields: []domain.FormField{
		{Name: "name", Label: "Name *", Required: true, Value: "Jane"},
		{Name: "email", Label: "Email *", Type: domain.FieldEmail, Required: true, Value: " jane@example.com "},
		{Name: "message", Label: "Message *", Required: true, Value: "Hello"},
	}}
}

func TestSubscribeNewsletter(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestFormService(notifier, 30*time.Millisecond)
	session := newTestSession()
	defer session.close()
	ctx := context.Background()

	op, _, err := svc.SubscribeNewsletter(ctx, session, "jane@example.com", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.count() != 0 {
		t.Error("nothing should be shown before the delay")
	}
	if err := op.Wait(ctx); err != nil {
		t.Fatalf("operation failed: %v", err)
	}
	if n, _ := notifier.last(); n.Message != "Successfully subscribed to newsletter!" || n.Type != domain.NotificationSuccess {
		t.Errorf("unexpected notification: %+v", n)
	}

	select {
	case sub := <-svc.GetSubmissionQueue():
		if sub.Kind != domain.SubmissionNewsletter || sub.Email != "jane@example.com" || sub.SessionID != session.ID {
			t.Errorf("unexpected submission: %+v", sub)
		}
	default:
		t.Error("expected a queued submission")
	}
}

func TestSubscribeNewsletter_InvalidEmail(t *testing.T) {
	svc := newTestFormService(&recordingNotifier{}, time.Millisecond)
	session := newTestSession()
	defer session.close()

	_, results, err := svc.SubscribeNewsletter(context.Background(), session, "nope", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(results) != 1 || results[0].Message != "Please enter a valid email address" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSubscribeNewsletter_DuplicateKey(t *testing.T) {
	svc := newTestFormService(&recordingNotifier{}, time.Millisecond)
	session := newTestSession()
	defer session.close()
	ctx := context.Background()

	if _, _, err := svc.SubscribeNewsletter(ctx, session, "jane@example.com", "key-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.SubscribeNewsletter(ctx, session, "jane@example.com", "key-1"); !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}
}

func TestSubmitContact_BusyUntilDone(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestFormService(notifier, 50*time.Millisecond)
	session := newTestSession()
	defer session.close()
	ctx := context.Background()

	op, _, err := svc.SubmitContact(ctx, session, validContactForm(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.snapshot().ContactBusy {
		t.Error("form should be disabled while sending")
	}
	if _, _, err := svc.SubmitContact(ctx, session, validContactForm(), ""); !errors.Is(err, ErrFormBusy) {
		t.Errorf("expected ErrFormBusy, got %v", err)
	}

	if err := op.Wait(ctx); err != nil {
		t.Fatalf("operation failed: %v", err)
	}
	if session.snapshot().ContactBusy {
		t.Error("form should be enabled again")
	}
	if n, _ := notifier.last(); n.Message != "Message sent successfully! We'll get back to you soon." {
		t.Errorf("unexpected notification: %+v", n)
	}

	sub := <-svc.GetSubmissionQueue()
	if sub.Kind != domain.SubmissionContact || sub.Email != "jane@example.com" || sub.Fields["message"] != "Hello" {
		t.Errorf("unexpected submission: %+v", sub)
	}
}

func TestSubmitContact_Invalid(t *testing.T) {
	svc := newTestFormService(&recordingNotifier{}, time.Millisecond)
	session := newTestSession()
	defer session.close()

	form := validContactForm()
	form.Fields[0].Value = ""

	_, results, err := svc.SubmitContact(context.Background(), session, form, "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if results[0].Valid || results[0].Message != "Name is required" {
		t.Errorf("unexpected result: %+v", results[0])
	}
	if session.snapshot().ContactBusy {
		t.Error("invalid form should not be disabled")
	}
}

func TestSubmitContact_SessionClosed(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestFormService(notifier, time.Hour)
	session := newTestSession()

	op, _, err := svc.SubmitContact(context.Background(), session, validContactForm(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.close()

	select {
	case <-op.Done():
	case <-time.After(time.Second):
		t.Fatal("operation should end with its session")
	}
	if !errors.Is(op.Err(), ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", op.Err())
	}
	if notifier.count() != 0 {
		t.Error("a closed session gets no completion notice")
	}
}

func TestApplyPromo(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestFormService(notifier, time.Millisecond)
	session := newTestSession()
	defer session.close()

	promo, ok := svc.ApplyPromo(session, "save10")
	if !ok || promo.Type != domain.PromoPercentage {
		t.Fatalf("expected SAVE10, got %+v", promo)
	}
	if n, _ := notifier.last(); n.Message != "Promo code applied! You saved $10" || n.Type != domain.NotificationSuccess {
		t.Errorf("unexpected notification: %+v", n)
	}

	if _, ok := svc.ApplyPromo(session, "BOGUS"); ok {
		t.Error("expected invalid code")
	}
	if n, _ := notifier.last(); n.Message != "Invalid promo code" || n.Type != domain.NotificationError {
		t.Errorf("unexpected notification: %+v", n)
	}
}

func TestFormService_CloseIsIdempotent(t *testing.T) {
	svc := newTestFormService(&recordingNotifier{}, time.Millisecond)
	svc.Close()
	svc.Close()

	if _, ok := <-svc.GetSubmissionQueue(); ok {
		t.Error("queue should be closed")
	}

	session := newTestSession()
	defer session.close()
	// enqueue after close drops the submission instead of panicking
	svc.enqueue(session.Context(), domain.Submission{ID: "late"})
}
