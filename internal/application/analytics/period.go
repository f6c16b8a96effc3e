package analytics

import (
	"time"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// Period selects a window of orders relative to "now".
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	Period24h       Period = "24h"
	Period48h       Period = "48h"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodThisMonth Period = "this_month"
	PeriodCustom    Period = "custom"
)

// Periods lists every accepted period value.
var Periods = []Period{PeriodAll, PeriodToday, Period24h, Period48h, PeriodWeek, PeriodMonth, PeriodThisMonth, PeriodCustom}

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// DateRange bounds a custom period; nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// FilterByTimePeriod keeps the orders created inside the window. The result
// is a new slice in input order.
func FilterByTimePeriod(orders []entity.Order, period Period, custom DateRange, now time.Time) []entity.Order {
	if period == PeriodCustom {
		switch {
		case custom.From != nil && custom.To != nil:
			from, to := *custom.From, *custom.To
			return filterOrders(orders, func(o entity.Order) bool {
				return !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
			})
		case custom.From != nil:
			from := *custom.From
			return filterOrders(orders, func(o entity.Order) bool {
				return !o.CreatedAt.Before(from)
			})
		default:
			return filterOrders(orders, nil)
		}
	}

	start, ok := periodStart(period, now)
	if !ok {
		return filterOrders(orders, nil)
	}
	return filterOrders(orders, func(o entity.Order) bool {
		return !o.CreatedAt.Before(start)
	})
}

// periodStart returns the inclusive lower bound. now is never modified.
func periodStart(period Period, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case Period24h:
		return now.Add(-24 * time.Hour), true
	case Period48h:
		return now.Add(-48 * time.Hour), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, 0, -30), true
	case PeriodThisMonth:
		y, m, _ := now.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

func filterOrders(orders []entity.Order, keep func(entity.Order) bool) []entity.Order {
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if keep == nil || keep(o) {
			out = append(out, o)
		}
	}
	return out
}
