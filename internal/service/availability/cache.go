package availability

import (
	"github.com/puzpuzpuz/xsync/v3"

	"calspots/backend/internal/domain"
)

// dayWindowCache memoizes the day windows of a snapshot per ISO date. Loads are pure, so
// two goroutines racing on the same date compute identical values and either may win.
type dayWindowCache struct {
	days *xsync.MapOf[string, []domain.DayWindow]
}

func newDayWindowCache() *dayWindowCache {
	return &dayWindowCache{days: xsync.NewMapOf[string, []domain.DayWindow]()}
}

func (c *dayWindowCache) windows(isoDate string, load func() []domain.DayWindow) []domain.DayWindow {
	windows, _ := c.days.LoadOrCompute(isoDate, load)
	return windows
}

func (c *dayWindowCache) size() int {
	return c.days.Size()
}
