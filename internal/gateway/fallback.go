package gateway

import (
	"context"
	"errors"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/metrics"
)

// ErrNoCandidates is returned by FirstSuccess when called with nothing to try.
var ErrNoCandidates = errors.New("no candidate operations")

// Candidate is one way of fetching a related resource.
type Candidate[T any] func(ctx context.Context) (T, error)

// FirstSuccess runs the candidates in order and returns the first result that
// succeeds. When all fail the errors are joined. An expired session or a done
// context stops the search early.
func FirstSuccess[T any](ctx context.Context, candidates ...Candidate[T]) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}

	var errs []error
	for _, try := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, errors.Join(append(errs, err)...)
		}
		v, err := try(ctx)
		if err == nil {
			metrics.FallbackAttemptsTotal.WithLabelValues("hit").Inc()
			return v, nil
		}
		metrics.FallbackAttemptsTotal.WithLabelValues("miss").Inc()
		if errors.Is(err, domain.ErrSessionExpired) {
			return zero, err
		}
		errs = append(errs, err)
	}
	return zero, errors.Join(errs...)
}
