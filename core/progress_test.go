package core

import (
	"testing"
	"time"
)

func TestAdvanceBatchComputesPercentage(t *testing.T) {
	p := NewBatchProgress("fp1", 4, time.Now())
	p = AdvanceBatch(p, 1, "batch 1 ok")
	if p.Percentage != 25 {
		t.Errorf("expected 25%%, got %v", p.Percentage)
	}
	if p.Complete {
		t.Error("did not expect complete after 1 of 4 batches")
	}
}

func TestAdvanceBatchMarksCompleteOnFinalBatch(t *testing.T) {
	p := NewBatchProgress("fp1", 2, time.Now())
	p = AdvanceBatch(p, 1, "batch 1")
	p = AdvanceBatch(p, 2, "batch 2")
	if !p.Complete {
		t.Error("expected complete after final batch")
	}
	if p.Percentage != 100 {
		t.Errorf("expected 100%%, got %v", p.Percentage)
	}
}

func TestAdvanceBatchAccumulatesLog(t *testing.T) {
	p := NewBatchProgress("fp1", 2, time.Now())
	p = AdvanceBatch(p, 1, "first")
	p = AdvanceBatch(p, 2, "second")
	if len(p.BatchLog) != 2 || p.BatchLog[0] != "first" || p.BatchLog[1] != "second" {
		t.Errorf("unexpected batch log: %+v", p.BatchLog)
	}
}

func TestInterpolateInFlightNeverReachesNextBoundary(t *testing.T) {
	p := NewBatchProgress("fp1", 4, time.Now())
	p = InterpolateInFlight(p, 1, 10*time.Second, 10*time.Second)
	if p.Percentage >= 25 {
		t.Errorf("expected in-flight percentage capped below batch boundary 25, got %v", p.Percentage)
	}
}

func TestInterpolateInFlightScalesWithElapsed(t *testing.T) {
	p := NewBatchProgress("fp1", 4, time.Now())
	early := InterpolateInFlight(p, 1, 1*time.Second, 10*time.Second)
	late := InterpolateInFlight(p, 1, 9*time.Second, 10*time.Second)
	if late.Percentage <= early.Percentage {
		t.Errorf("expected later elapsed time to report higher percentage: early=%v late=%v", early.Percentage, late.Percentage)
	}
}
