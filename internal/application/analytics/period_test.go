package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func ordersAt(times ...string) []entity.Order {
	out := make([]entity.Order, len(times))
	for i, s := range times {
		out[i] = entity.Order{ID: s, CreatedAt: at(s), Total: 1}
	}
	return out
}

func ids(orders []entity.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestFilterByTimePeriod_TodayUsesLocalMidnight(t *testing.T) {
	now := at("2024-06-15T15:00:00")
	orders := ordersAt("2024-06-14T23:59:59", "2024-06-15T00:00:00", "2024-06-15T14:00:00")

	got := FilterByTimePeriod(orders, PeriodToday, DateRange{}, now)

	assert.Equal(t, []string{"2024-06-15T00:00:00", "2024-06-15T14:00:00"}, ids(got))
	assert.Equal(t, at("2024-06-15T15:00:00"), now, "now must not be modified")
}

func TestFilterByTimePeriod_RelativeWindows(t *testing.T) {
	now := at("2024-06-15T12:00:00")
	orders := ordersAt(
		"2024-05-01T00:00:00",
		"2024-05-20T00:00:00",
		"2024-06-03T00:00:00",
		"2024-06-10T00:00:00",
		"2024-06-13T13:00:00",
		"2024-06-14T13:00:00",
	)

	cases := []struct {
		period Period
		want   int
	}{
		{PeriodAll, 6},
		{Period24h, 1},
		{Period48h, 2},
		{PeriodWeek, 3},
		{PeriodThisMonth, 4},
		{PeriodMonth, 5},
		{Period("bogus"), 6},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			got := FilterByTimePeriod(orders, tc.period, DateRange{}, now)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestFilterByTimePeriod_Custom(t *testing.T) {
	now := at("2024-06-15T12:00:00")
	orders := ordersAt("2024-06-01T00:00:00", "2024-06-05T00:00:00", "2024-06-10T00:00:00")
	from := at("2024-06-05T00:00:00")
	to := at("2024-06-10T00:00:00")

	both := FilterByTimePeriod(orders, PeriodCustom, DateRange{From: &from, To: &to}, now)
	assert.Equal(t, []string{"2024-06-05T00:00:00", "2024-06-10T00:00:00"}, ids(both))

	early := at("2024-06-06T00:00:00")
	onlyFrom := FilterByTimePeriod(orders, PeriodCustom, DateRange{From: &early}, now)
	assert.Equal(t, []string{"2024-06-10T00:00:00"}, ids(onlyFrom))

	none := FilterByTimePeriod(orders, PeriodCustom, DateRange{}, now)
	assert.Len(t, none, 3)

	onlyTo := FilterByTimePeriod(orders, PeriodCustom, DateRange{To: &early}, now)
	assert.Len(t, onlyTo, 3)
}

func TestFilterByTimePeriod_ReturnsNewSlice(t *testing.T) {
	orders := ordersAt("2024-06-01T00:00:00")
	got := FilterByTimePeriod(orders, PeriodAll, DateRange{}, at("2024-06-15T12:00:00"))
	require.Len(t, got, 1)
	got[0].ID = "changed"
	assert.Equal(t, "2024-06-01T00:00:00", orders[0].ID)
}
