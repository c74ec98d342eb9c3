// BatchProgress mutation and interpolation helpers used by the batch
// coordinator (C9), per spec §4.9's progress-estimate rule.

package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/frcscout/picklist/team"
)

// NewBatchProgress starts a fresh progress record for a request about to
// run totalBatches batches. RunID distinguishes successive runs over the
// same fingerprint (e.g. a cache entry re-reserved after expiry) in logs
// and in the cached progress record itself.
func NewBatchProgress(cacheKey string, totalBatches int, startTime time.Time) team.BatchProgress {
	return team.BatchProgress{
		CacheKey:     cacheKey,
		RunID:        uuid.NewString(),
		TotalBatches: totalBatches,
		CurrentBatch: 0,
		Percentage:   0,
		StartTime:    startTime,
	}
}

// AdvanceBatch records that batch number (1-based) has completed, with
// logMessage appended to the running log.
func AdvanceBatch(p team.BatchProgress, batchNumber int, logMessage string) team.BatchProgress {
	p.CurrentBatch = batchNumber
	p.BatchLog = append(append([]string(nil), p.BatchLog...), logMessage)
	p.Percentage = percentageFor(batchNumber, p.TotalBatches)
	p.Complete = batchNumber >= p.TotalBatches
	return p
}

// InterpolateInFlight estimates percentage while a batch is in flight:
// linear interpolation of elapsed-over-expected time for the current
// batch, capped just below the next batch boundary so progress never
// appears to reach or pass a batch that has not actually completed.
func InterpolateInFlight(p team.BatchProgress, batchNumber int, elapsed, expectedPerBatch time.Duration) team.BatchProgress {
	if p.TotalBatches <= 0 {
		return p
	}

	floor := percentageFor(batchNumber-1, p.TotalBatches)
	ceiling := percentageFor(batchNumber, p.TotalBatches)

	fraction := 0.0
	if expectedPerBatch > 0 {
		fraction = float64(elapsed) / float64(expectedPerBatch)
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}

	estimated := floor + fraction*(ceiling-floor)
	// Never let an in-flight estimate reach the boundary that only a
	// completed batch is entitled to report.
	const epsilon = 0.01
	if estimated >= ceiling {
		estimated = ceiling - epsilon
	}

	p.CurrentBatch = batchNumber
	p.Percentage = estimated
	return p
}

func percentageFor(completedBatches, totalBatches int) float64 {
	if totalBatches <= 0 {
		return 0
	}
	pct := float64(completedBatches) / float64(totalBatches) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
