package port

import (
	"context"

	"github.com/rl1809/techmart/internal/core/domain"
)

type CatalogRepository interface {
	// ListProducts returns every listed product in catalog order
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProduct returns nil when the id is unknown
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type SubmissionRepository interface {
	// SaveSubmission persists a processed newsletter or contact submission
	SaveSubmission(ctx context.Context, submission domain.Submission) error
}
