// internal/analysis/buckets.go
package analysis

import (
	"math"
	"sort"
)

// DurationBucket is one half-open band of the hold-time partition, bounded
// in minutes. MaxMinutes of the last band is +Inf.
type DurationBucket struct {
	Label      string  `json:"label"`
	MinMinutes float64 `json:"min_minutes"`
	MaxMinutes float64 `json:"max_minutes"`
}

// HoldTimeBuckets is the fixed ordered partition of [0, inf) used for the
// distribution report.
var HoldTimeBuckets = []DurationBucket{
	{Label: "< 1 second", MinMinutes: 0, MaxMinutes: 1.0 / 60.0},
	{Label: "1 second - 1 minute", MinMinutes: 1.0 / 60.0, MaxMinutes: 1},
	{Label: "1 - 5 minutes", MinMinutes: 1, MaxMinutes: 5},
	{Label: "5 - 10 minutes", MinMinutes: 5, MaxMinutes: 10},
	{Label: "10 - 30 minutes", MinMinutes: 10, MaxMinutes: 30},
	{Label: "30 - 60 minutes", MinMinutes: 30, MaxMinutes: 60},
	{Label: "1 - 4 hours", MinMinutes: 60, MaxMinutes: 240},
	{Label: "4 - 24 hours", MinMinutes: 240, MaxMinutes: 1440},
	{Label: "1 - 7 days", MinMinutes: 1440, MaxMinutes: 10080},
	{Label: "> 7 days", MinMinutes: 10080, MaxMinutes: math.Inf(1)},
}

// BucketStats is the per-band slice of the distribution.
type BucketStats struct {
	DurationBucket
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DistributionReport summarizes hold-time behavior across every analyzed
// mint of a wallet.
type DistributionReport struct {
	TotalTokens      int           `json:"total_tokens"`
	Buckets          []BucketStats `json:"buckets"`
	MedianHoldHours  float64       `json:"median_hold_hours"`
	MeanHoldHours    float64       `json:"mean_hold_hours"`
	MinHoldHours     float64       `json:"min_hold_hours"`
	MaxHoldHours     float64       `json:"max_hold_hours"`
	UltraFastPercent float64       `json:"ultra_fast_percent"` // first two bands
	FastPercent      float64       `json:"fast_percent"`       // next two bands
}

// bucketIndex maps an hold time in hours to its band.
func bucketIndex(holdHours float64) int {
	minutes := holdHours * 60
	for i, b := range HoldTimeBuckets {
		if minutes >= b.MinMinutes && minutes < b.MaxMinutes {
			return i
		}
	}
	return len(HoldTimeBuckets) - 1
}

// BuildDistribution places each mint's weighted hold time into exactly one
// band and derives the wallet-level summary statistics.
func BuildDistribution(metrics []PositionMetrics) DistributionReport {
	report := DistributionReport{
		Buckets: make([]BucketStats, len(HoldTimeBuckets)),
	}
	for i, b := range HoldTimeBuckets {
		report.Buckets[i].DurationBucket = b
	}

	if len(metrics) == 0 {
		return report
	}

	holdTimes := make([]float64, 0, len(metrics))
	for i := range metrics {
		h := metrics[i].WeightedHoldTimeHrs
		holdTimes = append(holdTimes, h)
		report.Buckets[bucketIndex(h)].Count++
	}

	report.TotalTokens = len(holdTimes)
	total := float64(report.TotalTokens)
	for i := range report.Buckets {
		report.Buckets[i].Percent = float64(report.Buckets[i].Count) / total * 100
	}

	sort.Float64s(holdTimes)
	report.MinHoldHours = holdTimes[0]
	report.MaxHoldHours = holdTimes[len(holdTimes)-1]
	report.MedianHoldHours = median(holdTimes)

	var sum float64
	for _, h := range holdTimes {
		sum += h
	}
	report.MeanHoldHours = sum / total

	report.UltraFastPercent = report.Buckets[0].Percent + report.Buckets[1].Percent
	report.FastPercent = report.Buckets[2].Percent + report.Buckets[3].Percent
	return report
}

// median expects a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
