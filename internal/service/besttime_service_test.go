package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	settings *models.Settings
}

func (f *fakeSettings) GetByUserID(_ context.Context, _ int64) (*models.Settings, bool, error) {
	if f.settings == nil {
		return nil, false, nil
	}
	return f.settings, true, nil
}

func TestRankDayOrdersByScore(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	slots := rankDay([]string{models.PlatformInstagram}, date, time.UTC, nil)

	require.Len(t, slots, 3)
	assert.Equal(t, 11, slots[0].Timestamp.Hour())
	assert.Equal(t, 19, slots[1].Timestamp.Hour())
	assert.Equal(t, 13, slots[2].Timestamp.Hour())
	for i := 1; i < len(slots); i++ {
		assert.GreaterOrEqual(t, slots[i-1].Score, slots[i].Score)
	}
}

func TestRankDayWeekendPenalty(t *testing.T) {
	weekday := rankDay([]string{models.PlatformFacebook}, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), time.UTC, nil)
	weekend := rankDay([]string{models.PlatformFacebook}, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), time.UTC, nil)

	require.Len(t, weekend, len(weekday))
	assert.InDelta(t, weekday[0].Score*weekendFactor, weekend[0].Score, 1e-9)
}

func TestRankDayUnknownPlatformFallsBack(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		rankDay([]string{models.PlatformInstagram}, date, time.UTC, nil),
		rankDay([]string{"myspace"}, date, time.UTC, nil))
}

func TestBestTimesUsesSettings(t *testing.T) {
	preferred := time.Date(0, 1, 1, 8, 30, 0, 0, time.UTC)
	s := NewBestTimeService(&fakeSettings{settings: &models.Settings{
		PostingTime: preferred,
		Timezone:    "Asia/Kolkata",
	}})

	slots, err := s.BestTimes(context.Background(), 1, []string{models.PlatformTiktok}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	top := slots[0]
	assert.Equal(t, preferredScore, top.Score)
	assert.Equal(t, "Asia/Kolkata", top.Timestamp.Location().String())
	assert.Equal(t, 8, top.Timestamp.Hour())
	assert.Equal(t, 30, top.Timestamp.Minute())
}

func TestBestTimesWithoutSettings(t *testing.T) {
	s := NewBestTimeService(&fakeSettings{})
	slots, err := s.BestTimes(context.Background(), 1, []string{models.PlatformYoutube}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, 17, slots[0].Timestamp.Hour())
}
