package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"ve-video-toolkit/pkg/stats"
)

// Processor handles one snapshot index to completion.
type Processor interface {
	Process(ctx context.Context, index int) (Outcome, error)
}

// Result records the terminal state of one index.
type Result struct {
	Index    int
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Summary aggregates a whole run. Failures never abort the pool: every
// index is driven to a terminal outcome and failed ones are collected
// here for the final report.
type Summary struct {
	Rendered       int
	SkippedMissing int
	SkippedDone    int
	Failed         int

	Failures        []Result
	RenderDurations *stats.StreamingStats
}

// Total returns the number of completed indices.
func (s *Summary) Total() int {
	return s.Rendered + s.SkippedMissing + s.SkippedDone + s.Failed
}

// Table renders the run summary for terminal output.
func (s *Summary) Table() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Outcome", "Count"})
	t.AppendRows([]table.Row{
		{OutcomeRendered.String(), s.Rendered},
		{OutcomeSkippedMissing.String(), s.SkippedMissing},
		{OutcomeSkippedDone.String(), s.SkippedDone},
		{OutcomeFailed.String(), s.Failed},
	})
	t.AppendFooter(table.Row{"total", s.Total()})

	out := t.Render()
	if s.RenderDurations != nil && s.RenderDurations.Count() > 0 {
		out += fmt.Sprintf(
			"\nrender time per frame: mean %.2fs, min %.2fs, max %.2fs, stddev %.2fs",
			s.RenderDurations.Mean(),
			s.RenderDurations.Min(),
			s.RenderDurations.Max(),
			s.RenderDurations.StdDev())
	}
	return out
}

// Driver partitions the snapshot index range across a fixed worker pool.
type Driver struct {
	workers   int
	processor Processor
	logger    *zap.Logger
}

// NewDriver creates a driver with the given pool size.
func NewDriver(workers int, processor Processor, logger *zap.Logger) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{
		workers:   workers,
		processor: processor,
		logger:    logger,
	}
}

// Run dispatches indices [0, n) across the pool and blocks until every
// index has a terminal outcome or the context is cancelled. No ordering
// is guaranteed between indices; tasks are independent because each
// reads and writes uniquely named files.
//
// The error is non-nil when any index failed, but it is only returned
// after all indices have been driven to completion: one corrupt snapshot
// must not abort a whole batch run.
func (d *Driver) Run(ctx context.Context, n int) (*Summary, error) {
	indices := make(chan int)
	results := make(chan Result)

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			d.runWorker(ctx, worker, indices, results)
		}(w)
	}

	go func() {
		defer close(indices)
		for i := 0; i < n; i++ {
			select {
			case indices <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{RenderDurations: stats.NewStreamingStats()}
	for res := range results {
		switch res.Outcome {
		case OutcomeRendered:
			summary.Rendered++
			summary.RenderDurations.Update(res.Duration.Seconds())
		case OutcomeSkippedMissing:
			summary.SkippedMissing++
		case OutcomeSkippedDone:
			summary.SkippedDone++
		case OutcomeFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, res)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run cancelled after %d of %d snapshots: %w", summary.Total(), n, err)
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d snapshots failed", summary.Failed, n)
	}

	d.logger.Info("All snapshots dispatched",
		zap.Int("rendered", summary.Rendered),
		zap.Int("skipped_missing", summary.SkippedMissing),
		zap.Int("skipped_done", summary.SkippedDone))
	return summary, nil
}

// runWorker executes orchestrator tasks to completion, one index at a
// time, until the index channel drains or the context is cancelled.
func (d *Driver) runWorker(ctx context.Context, worker int, indices <-chan int, results chan<- Result) {
	logger := d.logger.With(zap.Int("worker", worker))
	logger.Debug("Worker started")
	defer logger.Debug("Worker stopped")

	for index := range indices {
		start := time.Now()
		outcome, err := d.processor.Process(ctx, index)
		results <- Result{
			Index:    index,
			Outcome:  outcome,
			Err:      err,
			Duration: time.Since(start),
		}
	}
}
