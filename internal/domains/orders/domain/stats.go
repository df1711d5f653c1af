package domain

import (
	"fmt"
	"sort"
	"time"
)

// Stats is derived from the current order set and never stored.
type Stats struct {
	Pending          int
	Processing       int
	Shipped          int
	Delivered        int
	Cancelled        int
	Total            int64
	DeliveredRevenue int64
}

// Day is a calendar date in a fixed location. It is the revenue grouping key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in loc (UTC when loc is nil).
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Format renders the day with a time layout, e.g. "02/01/2006".
func (d Day) Format(layout string) string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

type RevenuePoint struct {
	Day              Day
	Revenue          int64
	DeliveredRevenue int64
}

type StatusPoint struct {
	Name  string
	Value int
}

// CalculateStats counts orders per status and sums revenue. Orders with an
// unknown status only contribute to Total.
func CalculateStats(orders []*Order) Stats {
	var stats Stats
	for _, o := range orders {
		if o == nil {
			continue
		}
		stats.Total += o.TotalAmount
		switch o.Status {
		case StatusPending:
			stats.Pending++
		case StatusProcessing:
			stats.Processing++
		case StatusShipped:
			stats.Shipped++
		case StatusDelivered:
			stats.Delivered++
			stats.DeliveredRevenue += o.TotalAmount
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// PrepareRevenueData buckets orders by creation day in loc. Points follow the
// order in which days are first seen after a stable ascending sort on
// CreatedAt. The input slice is not modified.
func PrepareRevenueData(orders []*Order, loc *time.Location) []RevenuePoint {
	sorted := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if o != nil {
			sorted = append(sorted, o)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := []RevenuePoint{}
	index := map[Day]int{}
	for _, o := range sorted {
		day := DayOf(o.CreatedAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(points)
			index[day] = i
			points = append(points, RevenuePoint{Day: day})
		}
		points[i].Revenue += o.TotalAmount
		if o.Status == StatusDelivered {
			points[i].DeliveredRevenue += o.TotalAmount
		}
	}
	return points
}

// PrepareStatusData projects stats into the five status buckets in display
// order. label translates a status; nil uses the raw value.
func PrepareStatusData(stats Stats, label func(Status) string) []StatusPoint {
	if label == nil {
		label = func(s Status) string { return string(s) }
	}
	counts := map[Status]int{
		StatusPending:    stats.Pending,
		StatusProcessing: stats.Processing,
		StatusShipped:    stats.Shipped,
		StatusDelivered:  stats.Delivered,
		StatusCancelled:  stats.Cancelled,
	}
	points := make([]StatusPoint, 0, len(Statuses))
	for _, status := range Statuses {
		points = append(points, StatusPoint{Name: label(status), Value: counts[status]})
	}
	return points
}
