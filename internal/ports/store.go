package ports

import (
	"context"

	"github.com/abtiwary/pulsewire/internal/domain"
)

// Store persists one record per call, committing each row individually.
type Store interface {
	Insert(ctx context.Context, r *domain.HealthRecord) error
	Name() string
	Close() error
}
