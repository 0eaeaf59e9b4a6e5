package segment

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	HighSpendThreshold    = 10000.0
	LowFrequencyMaxVisits = 3
	InactiveAfterDays     = 90
)

// Breakdown is descriptive only; it never filters the audience.
type Breakdown struct {
	HighSpenders int `json:"highSpenders"`
	LowFrequency int `json:"lowFrequency"`
	Inactive     int `json:"inactive"`
}

func Summarize(customers []*entity.Customer, now time.Time) Breakdown {
	var b Breakdown
	for _, c := range customers {
		if c.TotalSpend > HighSpendThreshold {
			b.HighSpenders++
		}
		if c.VisitCount <= LowFrequencyMaxVisits {
			b.LowFrequency++
		}
		if days, ok := c.DaysSinceLastOrder(now); !ok || days > InactiveAfterDays {
			b.Inactive++
		}
	}
	return b
}
