package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"dsm-settlement/internal/model"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingGeneration = errors.New("schedule day has no generation")
	ErrMissingSchedule   = errors.New("generation day has no schedule")
)

// DayJob is one site-day to settle.
type DayJob struct {
	Site       model.Site
	Schedule   model.ScheduleSeries
	Generation model.GenerationSeries
}

// SettleDays settles many site-days concurrently with at most workers
// goroutines (workers <= 0 means one per job). Results come back in job
// order. The first failure cancels jobs that have not started yet.
func (e *Engine) SettleDays(ctx context.Context, jobs []DayJob, workers int) ([]*DaySettlement, error) {
	out := make([]*DaySettlement, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range jobs {
		i, job := i, jobs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.SettleDay(job.Site, job.Schedule, job.Generation)
			if err != nil {
				return fmt.Errorf("job %d site=%s date=%s: %w", i, job.Site.ID, job.Schedule.Date, err)
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PairDays matches schedule and generation by date and returns one job per
// date, in date order. A date given twice keeps the later series. Every
// schedule day needs a generation day and the other way round.
func PairDays(site model.Site, schedules []model.ScheduleSeries, generations []model.GenerationSeries) ([]DayJob, error) {
	sched := make(map[model.Date]model.ScheduleSeries, len(schedules))
	for _, s := range schedules {
		sched[s.Date] = s
	}
	gen := make(map[model.Date]model.GenerationSeries, len(generations))
	for _, g := range generations {
		gen[g.Date] = g
	}

	dates := make([]model.Date, 0, len(sched))
	for d := range sched {
		if _, ok := gen[d]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingGeneration, d)
		}
		dates = append(dates, d)
	}
	for d := range gen {
		if _, ok := sched[d]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSchedule, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	jobs := make([]DayJob, 0, len(dates))
	for _, d := range dates {
		jobs = append(jobs, DayJob{Site: site, Schedule: sched[d], Generation: gen[d]})
	}
	return jobs, nil
}
