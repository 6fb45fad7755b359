package domain

import "time"

// PricePoint is one trading-day bar for the instrument under analysis.
type PricePoint struct {
	Date  time.Time
	Open  float64
	Close float64
}

// PriceSeries is an ordered sequence of trading-day bars, oldest first.
type PriceSeries []PricePoint

// IndexAtOrAfter returns the index of the first trading day at or after
// date. The search only moves forward - picking an earlier bar would leak
// future knowledge into a backtest. Returns -1 if no such day exists.
func (s PriceSeries) IndexAtOrAfter(date time.Time) int {
	for i, p := range s {
		if !p.Date.Before(date) {
			return i
		}
	}
	return -1
}
