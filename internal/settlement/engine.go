package settlement

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"dsm-settlement/internal/dsm"
	"dsm-settlement/internal/model"
	"dsm-settlement/internal/money"
	"dsm-settlement/internal/pricing"

	"github.com/sirupsen/logrus"
)

var (
	ErrNilResolver  = errors.New("price resolver is nil")
	ErrSiteMismatch = errors.New("series belong to a different site")
	ErrDateMismatch = errors.New("schedule and generation are for different dates")
)

// Engine settles site-days. It keeps no state between calls and may be
// shared across goroutines.
type Engine struct {
	resolver *pricing.Resolver
	log      logrus.FieldLogger
	loc      *time.Location
}

type Option func(*Engine)

// WithLogger sets where fallback-price observations are logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLocation sets the zone used for ledger block timestamps.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func New(resolver *pricing.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		log:      logrus.StandardLogger(),
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Resolver() *pricing.Resolver { return e.resolver }

// SettleDay validates both series and then settles every block.
// Any validation failure rejects the whole day before anything is computed.
func (e *Engine) SettleDay(site model.Site, schedule model.ScheduleSeries, generation model.GenerationSeries) (*DaySettlement, error) {
	if e.resolver == nil {
		return nil, ErrNilResolver
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site %q: %w", site.ID, err)
	}
	if err := model.ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	if err := model.ValidateGeneration(generation); err != nil {
		return nil, err
	}
	if schedule.SiteID != site.ID {
		return nil, fmt.Errorf("%w: schedule for %q settled as %q", ErrSiteMismatch, schedule.SiteID, site.ID)
	}
	if generation.SiteID != site.ID {
		return nil, fmt.Errorf("%w: generation for %q settled as %q", ErrSiteMismatch, generation.SiteID, site.ID)
	}
	if schedule.Date != generation.Date {
		return nil, fmt.Errorf("%w: %s vs %s", ErrDateMismatch, schedule.Date, generation.Date)
	}

	date := schedule.Date
	actual := generation.ByBlock()

	// validated series hold each block exactly once; walk them in block order
	blocks := make([]model.ScheduleBlock, len(schedule.Blocks))
	copy(blocks, schedule.Blocks)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].BlockNo < blocks[j].BlockNo })

	ledger := make([]LedgerRow, 0, len(blocks))
	var cumPayable, cumReceivable money.Sum
	fallbacks := 0

	for _, sb := range blocks {
		act := actual[sb.BlockNo]
		res := e.resolver.Resolve(date, sb.BlockNo)
		if !res.Authoritative {
			fallbacks++
		}

		dev := dsm.Compute(sb.ScheduledMW, act, site.CapacityMW, res.Price)
		cumPayable.Add(dev.DSMPayable)
		cumReceivable.Add(dev.DSMReceivable)

		start, end := model.BlockWindow(date, sb.BlockNo, e.loc)
		ledger = append(ledger, LedgerRow{
			SiteID:  site.ID,
			Date:    date,
			BlockNo: sb.BlockNo,

			BlockStart: start,
			BlockEnd:   end,

			ScheduledMW: sb.ScheduledMW,
			ActualMW:    act,
			CapacityMW:  site.CapacityMW,

			Price:         res.Price,
			PriceSource:   res.Source,
			Authoritative: res.Authoritative,

			DeviationResult: dev,

			CumPayable:    cumPayable.Float(),
			CumReceivable: cumReceivable.Float(),
		})
	}

	if fallbacks > 0 {
		e.log.WithFields(logrus.Fields{
			"site_id":         site.ID,
			"date":            date.String(),
			"fallback_blocks": fallbacks,
			"fallback_price":  e.resolver.FallbackPrice(),
		}).Debug("settled blocks on fallback price")
	}

	out := &DaySettlement{Site: site, Date: date, Ledger: ledger}
	out.Summary = AggregateDay(site.ID, date, out.BlockResults())
	return out, nil
}
