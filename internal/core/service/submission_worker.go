package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/port"
)

const saveTimeout = 5 * time.Second

// StartSubmissionWorkers persists queued submissions with n workers. The
// returned group is done once the queue is closed and drained.
func StartSubmissionWorkers(n int, queue <-chan domain.Submission, repo port.SubmissionRepository, logger *zap.Logger) *sync.WaitGroup {
	if logger == nil {
		logger = zap.NewNop()
	}
	if n < 1 {
		n = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			workerLoop(id, queue, repo, logger.With(zap.Int("worker", id)))
		}(i)
	}
	return &wg
}

func workerLoop(id int, queue <-chan domain.Submission, repo port.SubmissionRepository, logger *zap.Logger) {
	for sub := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)

		if err := repo.SaveSubmission(ctx, sub); err != nil {
			logger.Error("failed to save submission",
				zap.String("submission_id", sub.ID),
				zap.String("kind", string(sub.Kind)),
				zap.Error(err),
			)
		} else {
			logger.Info("saved submission",
				zap.String("submission_id", sub.ID),
				zap.String("kind", string(sub.Kind)),
			)
		}

		cancel()
	}
}
