package availability

import "calspots/backend/internal/domain"

// Calendar is the entry point callers hold; the slot logic lives in its Processor.
type Calendar struct {
	processor Processor
}

func NewCalendar(processor Processor) (*Calendar, error) {
	if processor == nil {
		return nil, ErrInvalidProcessor
	}
	return &Calendar{processor: processor}, nil
}

func (c *Calendar) GetAvailability(date string, duration int) ([]domain.BookableSlot, error) {
	return c.processor.GetAvailableSpots(date, duration)
}
