package engine

import (
	"context"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Job is one independent tree to build.
type Job struct {
	Position Position
	Roll     Roll
}

// BuildMany builds the trees for independent jobs concurrently. Results are
// returned in job order. Cancelling ctx stops jobs that have not started.
func BuildMany(ctx context.Context, rules RuleSet, jobs []Job) ([]RootNode, error) {
	rules.validate()
	roots := make([]RootNode, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			roots[i] = BuildTree(rules, job.Position, job.Roll)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Int("jobs", len(jobs)).Str("rules", rules.Name).Msg("batch build complete")
	return roots, nil
}

// AllRolls returns the 21 distinct rolls, doublets included.
func AllRolls() []Roll {
	rolls := make([]Roll, 0, 21)
	for d1 := 1; d1 <= 6; d1++ {
		for d2 := 1; d2 <= d1; d2++ {
			rolls = append(rolls, Roll{First: d1, Second: d2})
		}
	}
	return rolls
}

// BuildAllRolls builds the trees for every distinct roll from pos.
func BuildAllRolls(ctx context.Context, rules RuleSet, pos Position) ([]RootNode, error) {
	rolls := AllRolls()
	jobs := make([]Job, len(rolls))
	for i, r := range rolls {
		jobs[i] = Job{Position: pos, Roll: r}
	}
	return BuildMany(ctx, rules, jobs)
}
