package core

import (
	"math"
	"testing"

	"github.com/frcscout/picklist/team"
)

func TestNormalizeWeightsSumsToOne(t *testing.T) {
	in := []team.Priority{
		{ID: "auto", Weight: 2},
		{ID: "teleop", Weight: 1.5},
		{ID: "defense", Weight: 1},
	}
	out, errResult := NormalizeWeights(in)
	if errResult != nil {
		t.Fatalf("unexpected error: %+v", errResult)
	}

	var sum float64
	for _, p := range out {
		sum += p.Weight
	}
	if math.Abs(sum-1.0) > 1e-3 {
		t.Errorf("normalized weights sum to %v, want ~1.0", sum)
	}
}

func TestNormalizeWeightsPreservesOriginal(t *testing.T) {
	in := []team.Priority{{ID: "auto", Weight: 2}, {ID: "teleop", Weight: 2}}
	out, errResult := NormalizeWeights(in)
	if errResult != nil {
		t.Fatalf("unexpected error: %+v", errResult)
	}
	for _, p := range out {
		if p.OriginalWeight != 2 {
			t.Errorf("expected OriginalWeight 2, got %v", p.OriginalWeight)
		}
		if p.Weight != 0.5 {
			t.Errorf("expected rescaled weight 0.5, got %v", p.Weight)
		}
	}
}

func TestNormalizeWeightsFiltersNonPositive(t *testing.T) {
	in := []team.Priority{
		{ID: "auto", Weight: 2},
		{ID: "bad_zero", Weight: 0},
		{ID: "bad_negative", Weight: -1},
	}
	out, errResult := NormalizeWeights(in)
	if errResult != nil {
		t.Fatalf("unexpected error: %+v", errResult)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving priority, got %d: %+v", len(out), out)
	}
	if out[0].ID != "auto" {
		t.Errorf("expected 'auto' to survive, got %q", out[0].ID)
	}
}

func TestNormalizeWeightsFiltersNonFinite(t *testing.T) {
	in := []team.Priority{
		{ID: "auto", Weight: 2},
		{ID: "inf", Weight: math.Inf(1)},
		{ID: "nan", Weight: math.NaN()},
	}
	out, errResult := NormalizeWeights(in)
	if errResult != nil {
		t.Fatalf("unexpected error: %+v", errResult)
	}
	if len(out) != 1 || out[0].ID != "auto" {
		t.Errorf("expected only 'auto' to survive, got %+v", out)
	}
}

func TestNormalizeWeightsEmptyAfterFilterFails(t *testing.T) {
	in := []team.Priority{{ID: "bad", Weight: -5}}
	_, errResult := NormalizeWeights(in)
	if errResult == nil {
		t.Fatal("expected error for all-non-positive priorities")
	}
	if errResult.Kind != team.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", errResult.Kind)
	}
}

func TestNormalizeWeightsEmptyInputFails(t *testing.T) {
	_, errResult := NormalizeWeights(nil)
	if errResult == nil {
		t.Fatal("expected error for empty priorities")
	}
}
