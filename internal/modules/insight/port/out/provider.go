package out

import (
	"context"

	"fivepillars/internal/modules/insight/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host starts a provider process for the duration of one call.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Generate(ctx context.Context, manifest domain.Manifest, snapshot domain.Snapshot) ([]domain.Suggestion, error)
}
