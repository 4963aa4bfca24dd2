// internal/analysis/fifo.go
package analysis

import (
	"github.com/solwatch/wallet-analyzer/internal/types"
)

// CompletionThreshold is the fraction of peak position at or below which a
// position counts as exited. Uniform for all mints.
const CompletionThreshold = 0.20

const secondsPerHour = 3600.0

// lot is one unconsumed acquisition. Owned exclusively by the lot queue;
// remainingAmount only ever decreases.
type lot struct {
	acquiredAt      int64
	remainingAmount float64
}

// lotQueue is a FIFO of open lots with an advancing front index, so partial
// and full consumption never shift the backing slice.
type lotQueue struct {
	lots  []lot
	front int
}

func (q *lotQueue) push(acquiredAt int64, amount float64) {
	q.lots = append(q.lots, lot{acquiredAt: acquiredAt, remainingAmount: amount})
}

func (q *lotQueue) empty() bool {
	return q.front >= len(q.lots)
}

// oldest returns the front lot. Callers must check empty() first.
func (q *lotQueue) oldest() *lot {
	return &q.lots[q.front]
}

func (q *lotQueue) pop() {
	q.front++
}

// open returns the still-open lots in acquisition order.
func (q *lotQueue) open() []lot {
	return q.lots[q.front:]
}

// PositionMetrics is the per-mint output of the FIFO matching engine.
type PositionMetrics struct {
	Mint                string  `json:"mint"`
	WeightedHoldTimeHrs float64 `json:"weighted_hold_time_hours"`
	PeakPosition        float64 `json:"peak_position"`
	CurrentPosition     float64 `json:"current_position"`
	IsCompleted         bool    `json:"is_completed"`
	UnmatchedDisposals  int     `json:"unmatched_disposals"`
	UnmatchedSellVolume float64 `json:"unmatched_sell_volume"`
}

// IsCompleted applies the completion heuristic: a position is exited once
// current holdings fall to the threshold fraction of peak, boundary
// inclusive.
func IsCompleted(peakPosition, currentPosition float64) bool {
	return currentPosition <= CompletionThreshold*peakPosition
}

// MatchLots runs FIFO lot matching over one mint's chronological trade
// sequence and derives the volume-weighted holding duration together with
// peak and current position size.
//
// Two passes are required: peak must reflect the full sequence before the
// completion decision gates whether unrealized holding time of still-open
// lots (measured against now) is folded into the average.
func MatchLots(seq []types.SwapRecord, now int64) PositionMetrics {
	m := PositionMetrics{}
	if len(seq) > 0 {
		m.Mint = seq[0].Mint
	}

	// Pass 1: peak running position.
	var running float64
	for i := range seq {
		switch seq[i].Direction {
		case types.DirectionIn:
			running += seq[i].Amount
		case types.DirectionOut:
			running -= seq[i].Amount
		}
		if running > m.PeakPosition {
			m.PeakPosition = running
		}
	}

	// Pass 2: drain lots oldest-first against disposals.
	var (
		queue        lotQueue
		weightedSum  float64 // unit-hours
		processedAmt float64
	)
	for i := range seq {
		ev := &seq[i]
		switch ev.Direction {
		case types.DirectionIn:
			queue.push(ev.Timestamp, ev.Amount)
		case types.DirectionOut:
			remaining := ev.Amount
			for remaining > 0 && !queue.empty() {
				l := queue.oldest()
				holdHours := float64(ev.Timestamp-l.acquiredAt) / secondsPerHour
				if l.remainingAmount <= remaining {
					weightedSum += holdHours * l.remainingAmount
					processedAmt += l.remainingAmount
					remaining -= l.remainingAmount
					queue.pop()
				} else {
					weightedSum += holdHours * remaining
					processedAmt += remaining
					l.remainingAmount -= remaining
					remaining = 0
				}
			}
			// Disposal volume beyond all tracked acquisitions is dropped,
			// matching upstream history gaps (transfers in that were never
			// recorded as trades). Counted for diagnostics only.
			if remaining > 0 {
				m.UnmatchedDisposals++
				m.UnmatchedSellVolume += remaining
			}
		}
	}

	for _, l := range queue.open() {
		m.CurrentPosition += l.remainingAmount
	}

	m.IsCompleted = IsCompleted(m.PeakPosition, m.CurrentPosition)

	// An active position's open lots contribute their unrealized holding
	// time; an exited position excludes the residual dust.
	if !m.IsCompleted {
		for _, l := range queue.open() {
			holdHours := float64(now-l.acquiredAt) / secondsPerHour
			weightedSum += holdHours * l.remainingAmount
			processedAmt += l.remainingAmount
		}
	}

	if processedAmt > 0 {
		m.WeightedHoldTimeHrs = weightedSum / processedAmt
	}
	return m
}
