package model

import "math"

// Tick is a single trade print from the streaming feed.
//
// Wire shape:
//
//	{"t":1704067200000,"price":42150.5,"volume":0.25}
type Tick struct {
	T      int64   `json:"t"`      // Unix milliseconds
	Price  float64 `json:"price"`  // last traded price
	Volume float64 `json:"volume"` // traded quantity
}

// Valid reports whether the tick carries a finite price and a non-negative finite volume.
func (t Tick) Valid() bool {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return false
	}
	if math.IsNaN(t.Volume) || math.IsInf(t.Volume, 0) || t.Volume < 0 {
		return false
	}
	return true
}
