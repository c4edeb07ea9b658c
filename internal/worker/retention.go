package worker

import (
	"context"

	"github.com/ipChrisLee/drm/internal/retention"
)

// Retention runs a single task. *retention.Engine implements it.
type Retention interface {
	Apply(ctx context.Context, task retention.Task) (retention.Report, error)
}
