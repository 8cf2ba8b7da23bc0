// Package duration holds the (hour, minute) pairs used for worked, late and
// early time, and the two normalizations applied to them.
//
// Sums are kept as separate hour and minute counters, so a pair may carry
// minute >= 60 until it is normalized. Averages divide both counters
// independently, which leaves fractional values; NormalizeFrac folds the
// fractional hour back into minutes before carrying.
package duration

import (
	"fmt"
	"math"
	"time"
)

// HM is an hour/minute pair. A normalized HM has 0 <= Minute < 60.
type HM struct {
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// Normalize carries whole hours out of minute. Inputs must be non-negative.
func Normalize(hour, minute int) HM {
	hour += minute / 60
	minute %= 60
	return HM{Hour: hour, Minute: minute}
}

// NormalizeFrac converts the fractional part of hour into minutes, truncates
// both values to integers and then carries like Normalize.
//
//	NormalizeFrac(10.5, 198.12) == HM{13, 48}
func NormalizeFrac(hour, minute float64) HM {
	whole := math.Trunc(hour)
	minute += (hour - whole) * 60
	return Normalize(int(whole), int(math.Trunc(minute)))
}

// FromSeconds splits a non-negative second count into hours and the
// remaining whole minutes. Leftover seconds are dropped.
func FromSeconds(secs int64) HM {
	return Normalize(int(secs/3600), int(secs%3600/60))
}

// Between returns the normalized span from a to b. b must not be before a.
func Between(a, b time.Time) HM {
	return FromSeconds(int64(b.Sub(a) / time.Second))
}

// Add returns the normalized sum of d and o.
func (d HM) Add(o HM) HM {
	return Normalize(d.Hour+o.Hour, d.Minute+o.Minute)
}

// Div divides hour and minute independently by n and normalizes the result
// with NormalizeFrac. n must be positive.
func (d HM) Div(n float64) HM {
	return NormalizeFrac(float64(d.Hour)/n, float64(d.Minute)/n)
}

// Minutes returns the total number of minutes in d.
func (d HM) Minutes() int { return d.Hour*60 + d.Minute }

// IsZero reports whether d is 0h0m.
func (d HM) IsZero() bool { return d.Hour == 0 && d.Minute == 0 }

// Normalized reports whether d is already in canonical form.
func (d HM) Normalized() bool {
	return d.Hour >= 0 && d.Minute >= 0 && d.Minute < 60
}

func (d HM) String() string { return fmt.Sprintf("%dh%02dm", d.Hour, d.Minute) }

// Describe renders d for operator messages: "H hour(s), M minute(s)" when
// there is at least one hour, otherwise "M minute(s)".
func (d HM) Describe() string {
	if d.Hour > 0 {
		return fmt.Sprintf("%d hour(s), %d minute(s)", d.Hour, d.Minute)
	}
	return fmt.Sprintf("%d minute(s)", d.Minute)
}
