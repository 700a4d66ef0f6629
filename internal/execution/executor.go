package execution

import (
	"context"
	"time"

	"narrtest/internal/domain"
)

// Executor runs test files and returns their results in input order
type Executor interface {
	Execute(ctx context.Context, paths []string) ([]domain.FileResult, time.Duration, error)
}
