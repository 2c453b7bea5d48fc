// Package schedule computes publication times for a bulk upload under the
// individual, spread and optimal strategies.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultHorizonDays = 14
)

// Oracle ranks candidate publication times for a set of platforms on one day.
type Oracle interface {
	BestTimes(ctx context.Context, platforms []string, date time.Time) ([]models.BestTimeSlot, error)
}

type Engine struct {
	oracle  Oracle
	horizon int
	now     func() time.Time
}

type Option func(*Engine)

// WithHorizon limits how many days ahead the optimal strategy searches.
func WithHorizon(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.horizon = days
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(oracle Oracle, opts ...Option) *Engine {
	e := &Engine{oracle: oracle, horizon: defaultHorizonDays, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute returns one scheduled time per post, in post order. A nil entry
// means publish immediately.
func (e *Engine) Compute(ctx context.Context, posts []models.BulkPost, strategy models.ScheduleStrategy, spread *models.SpreadConfig) ([]*time.Time, error) {
	switch strategy {
	case models.StrategyIndividual, "":
		out := make([]*time.Time, len(posts))
		for i, p := range posts {
			if p.ScheduledAt != nil {
				t := *p.ScheduledAt
				out[i] = &t
			}
		}
		return out, nil

	case models.StrategySpread:
		if len(posts) == 0 {
			return nil, nil
		}
		slots, err := SpreadSlots(spread, len(posts))
		if err != nil {
			return nil, err
		}
		out := make([]*time.Time, len(posts))
		for i := range slots {
			out[i] = &slots[i]
		}
		return out, nil

	case models.StrategyOptimal:
		if len(posts) == 0 {
			return nil, nil
		}
		return e.optimal(ctx, posts, spread)
	}

	return nil, fmt.Errorf("%w: unknown schedule strategy %q", models.ErrInvalidConfig, strategy)
}

type clock struct {
	hour, minute int
}

type spreadPlan struct {
	start time.Time
	times []clock
	cfg   models.SpreadConfig
}

func parseSpread(cfg *models.SpreadConfig) (*spreadPlan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: spread strategy without spread config", models.ErrInvalidConfig)
	}
	if cfg.PostsPerDay <= 0 {
		return nil, fmt.Errorf("%w: posts_per_day must be positive, got %d", models.ErrInvalidConfig, cfg.PostsPerDay)
	}
	if len(cfg.Times) == 0 {
		return nil, fmt.Errorf("%w: spread config has no times", models.ErrInvalidConfig)
	}
	loc, err := location(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	start, err := time.ParseInLocation(dateLayout, cfg.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q: %v", models.ErrInvalidConfig, cfg.StartDate, err)
	}
	times := make([]clock, len(cfg.Times))
	for i, s := range cfg.Times {
		t, err := time.Parse(timeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %v", models.ErrInvalidConfig, s, err)
		}
		times[i] = clock{hour: t.Hour(), minute: t.Minute()}
	}
	return &spreadPlan{start: start, times: times, cfg: *cfg}, nil
}

// ValidateSpread reports whether cfg could drive the spread strategy.
func ValidateSpread(cfg *models.SpreadConfig) error {
	_, err := parseSpread(cfg)
	return err
}

// SpreadSlots generates the first n spread slots. Days are walked one at a
// time from the start date; weekend days contribute nothing when skipped,
// every other day contributes PostsPerDay slots cycling through Times.
func SpreadSlots(cfg *models.SpreadConfig, n int) ([]time.Time, error) {
	plan, err := parseSpread(cfg)
	if err != nil {
		return nil, err
	}
	slots := make([]time.Time, 0, n)
	for day := 0; len(slots) < n; day++ {
		d := plan.start.AddDate(0, 0, day)
		if plan.cfg.SkipWeekends && isWeekend(d) {
			continue
		}
		for k := 0; k < plan.cfg.PostsPerDay && len(slots) < n; k++ {
			c := plan.times[k%len(plan.times)]
			slots = append(slots, time.Date(d.Year(), d.Month(), d.Day(), c.hour, c.minute, 0, 0, d.Location()))
		}
	}
	return slots, nil
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", models.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

type lookup struct {
	slots []models.BestTimeSlot
	err   error
}

// optimal hands each post, in order, the best ranked slot nobody has taken
// yet. A failed oracle call leaves the affected posts unscheduled.
func (e *Engine) optimal(ctx context.Context, posts []models.BulkPost, cfg *models.SpreadConfig) ([]*time.Time, error) {
	now := e.now()
	loc := time.UTC
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if cfg != nil {
		l, err := location(cfg.Timezone)
		if err != nil {
			return nil, err
		}
		loc = l
		start = time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
		if cfg.StartDate != "" {
			start, err = time.ParseInLocation(dateLayout, cfg.StartDate, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: start_date %q: %v", models.ErrInvalidConfig, cfg.StartDate, err)
			}
		}
	}

	out := make([]*time.Time, len(posts))
	if e.oracle == nil {
		slog.Info("optimal schedule requested without a best-time oracle")
		return out, nil
	}

	cache := make(map[string]lookup)
	used := make(map[int64]struct{})

	for i, p := range posts {
	days:
		for day := 0; day < e.horizon; day++ {
			date := start.AddDate(0, 0, day)
			key := strings.Join(p.Platforms, ",") + "|" + date.Format(dateLayout)
			res, ok := cache[key]
			if !ok {
				slots, err := e.oracle.BestTimes(ctx, p.Platforms, date)
				if err != nil {
					err = models.NewCollaboratorError("best times", err)
					slog.Info(err.Error())
				}
				res = lookup{slots: rank(slots), err: err}
				cache[key] = res
			}
			if res.err != nil {
				break days
			}
			for _, s := range res.slots {
				if s.Timestamp.Before(now) {
					continue
				}
				k := s.Timestamp.UnixNano()
				if _, taken := used[k]; taken {
					continue
				}
				used[k] = struct{}{}
				t := s.Timestamp
				out[i] = &t
				break days
			}
		}
	}
	return out, nil
}

// rank orders slots by descending score, earliest first on ties.
func rank(slots []models.BestTimeSlot) []models.BestTimeSlot {
	out := append([]models.BestTimeSlot(nil), slots...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
