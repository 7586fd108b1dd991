package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/attractor/internal/viz"
)

// Job is one independent trace of an ensemble. Finish, if set, runs on the
// job's goroutine after a successful trace, typically to save the surface.
type Job struct {
	Name    string
	Tracer  *Tracer
	Surface viz.Surface
	Config  Config
	Finish  func(*Result) error
}

// Ensemble traces several jobs concurrently. Each trace is still strictly
// serial; only whole jobs run in parallel.
type Ensemble struct {
	jobs  []Job
	limit int
}

// NewEnsemble runs at most limit jobs at once; limit <= 0 means no limit.
func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{limit: limit}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run returns results in job order. The first failure cancels the jobs
// still running and is returned.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, j := range e.jobs {
		i, j := i, j
		g.Go(func() error {
			res, err := j.Tracer.Run(ctx, j.Surface, j.Config)
			if err != nil {
				return err
			}
			results[i] = res
			if j.Finish != nil {
				return j.Finish(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
