package pnp

import (
	"context"
	"errors"
	"fmt"

	"github.com/newtron-network/pnpclaim/pkg/cli"
	"github.com/newtron-network/pnpclaim/pkg/util"
)

// Runner drives the pipeline over an inventory, strictly in file order,
// one row at a time.
type Runner struct {
	env      Env
	pipeline *Pipeline
	console  *cli.Console
}

// NewRunner creates a runner reporting to console.
func NewRunner(env Env, pipeline *Pipeline, console *cli.Console) *Runner {
	return &Runner{env: env, pipeline: pipeline, console: console}
}

// Run onboards rows in order and prints one line per row: a status line
// for claimed devices, a diagnostic for unresolvable or rejected ones.
// Only site/template not-found errors are row-local; any other failure
// stops the batch and is returned.
func (r *Runner) Run(ctx context.Context, rows []Row) error {
	var planned, failed, skipped, errored int
	log := r.env.logger()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := r.pipeline.Onboard(ctx, row)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				r.console.Error("%s,%s: %v", row.Name, row.Serial, err)
				errored++
				continue
			}
			return fmt.Errorf("row %d (%s,%s) after %s: %w", row.Line, row.Name, row.Serial, rec.LastStage(), err)
		}

		switch {
		case rec.Stage == StageSkipped:
			r.console.Skip("device:%s,%s:%s", row.Name, row.Serial, rec.SkipReason)
			skipped++
		case rec.Claimed():
			r.console.Printf("Device:%s name:%s siteName:%s Status:%s",
				row.Serial, row.Name, row.SiteName, rec.Status)
			if rec.Status == StatusPlanned {
				planned++
			} else {
				failed++
			}
		}
	}

	log.WithField("rows", len(rows)).Infof("Batch complete: %d planned, %d failed, %d skipped, %d errored",
		planned, failed, skipped, errored)
	return nil
}
