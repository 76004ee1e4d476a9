package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rl1809/techmart/internal/core/domain"
)

type fakeSubmissionRepo struct {
	mu    sync.Mutex
	saved []domain.Submission
	fail  map[string]bool
}

func (f *fakeSubmissionRepo) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[sub.ID] {
		return errors.New("db down")
	}
	f.saved = append(f.saved, sub)
	return nil
}

func TestSubmissionWorkers_DrainAndExit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	repo := &fakeSubmissionRepo{fail: map[string]bool{"bad": true}}
	queue := make(chan domain.Submission, 10)

	wg := StartSubmissionWorkers(3, queue, repo, zap.New(core))
	for _, id := range []string{"a", "b", "bad", "c"} {
		queue <- domain.Submission{ID: id, Kind: domain.SubmissionNewsletter}
	}
	close(queue)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not exit after the queue closed")
	}

	if len(repo.saved) != 3 {
		t.Errorf("expected 3 saved, got %d", len(repo.saved))
	}
	if n := logs.FilterMessage("failed to save submission").Len(); n != 1 {
		t.Errorf("expected 1 failure log, got %d", n)
	}
	if n := logs.FilterMessage("saved submission").Len(); n != 3 {
		t.Errorf("expected 3 success logs, got %d", n)
	}
}
