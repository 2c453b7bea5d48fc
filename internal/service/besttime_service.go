package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
)

// engagement windows per platform: hour of day -> relative score
var engagementWindows = map[string]map[int]float64{
	models.PlatformInstagram: {11: 0.9, 13: 0.8, 19: 0.85},
	models.PlatformFacebook:  {9: 0.8, 13: 0.85, 15: 0.7},
	models.PlatformTiktok:    {12: 0.75, 19: 0.9, 21: 0.85},
	models.PlatformYoutube:   {14: 0.8, 17: 0.9, 20: 0.75},
	models.PlatformWhatsapp:  {10: 0.8, 18: 0.75},
}

const (
	weekendFactor  = 0.9
	preferredScore = 1.0
)

// BestTimeService is the optimal-time oracle: it ranks candidate publication
// times for a day.
type BestTimeService interface {
	BestTimes(ctx context.Context, userID int64, platforms []string, date time.Time) ([]models.BestTimeSlot, error)
}

type bestTimeService struct {
	sr repository.SettingsRepository
}

func NewBestTimeService(sr repository.SettingsRepository) BestTimeService {
	return &bestTimeService{sr: sr}
}

func (s *bestTimeService) BestTimes(ctx context.Context, userID int64, platforms []string, date time.Time) ([]models.BestTimeSlot, error) {
	settings, ok, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	loc := date.Location()
	if ok && settings.Timezone != "" {
		if l, err := time.LoadLocation(settings.Timezone); err == nil {
			loc = l
		} else {
			slog.Info(err.Error())
		}
	}
	var preferred *time.Time
	if ok && !settings.PostingTime.IsZero() {
		preferred = &settings.PostingTime
	}
	return rankDay(platforms, date, loc, preferred), nil
}

func rankDay(platforms []string, date time.Time, loc *time.Location, preferred *time.Time) []models.BestTimeSlot {
	windows := make([]map[int]float64, 0, len(platforms))
	for _, p := range platforms {
		if w, ok := engagementWindows[p]; ok {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		windows = append(windows, engagementWindows[models.PlatformInstagram])
	}

	scores := make(map[int]float64)
	for _, w := range windows {
		for hour, score := range w {
			scores[hour*60] += score / float64(len(windows))
		}
	}

	y, m, d := date.Date()
	factor := 1.0
	if wd := time.Date(y, m, d, 0, 0, 0, 0, loc).Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor = weekendFactor
	}
	for k := range scores {
		scores[k] *= factor
	}
	if preferred != nil {
		scores[preferred.Hour()*60+preferred.Minute()] = preferredScore
	}

	slots := make([]models.BestTimeSlot, 0, len(scores))
	for minute, score := range scores {
		if score > 1 {
			score = 1
		}
		slots = append(slots, models.BestTimeSlot{
			Timestamp: time.Date(y, m, d, minute/60, minute%60, 0, 0, loc),
			Score:     score,
		})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Score != slots[j].Score {
			return slots[i].Score > slots[j].Score
		}
		return slots[i].Timestamp.Before(slots[j].Timestamp)
	})
	return slots
}
