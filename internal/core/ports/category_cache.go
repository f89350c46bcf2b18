package ports

import "context"

// CategoryCache stores the sorted category list between catalog writes.
type CategoryCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (categories []string, ok bool, err error)
	Set(ctx context.Context, categories []string) error
	Invalidate(ctx context.Context) error
}
