// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package rating

import (
	"testing"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{13.0 / 3.0, 2, 4.33},
		{10.0 / 3.0, 2, 3.33},
		{4.335, 2, 4.34},
		{4.345, 2, 4.35},
		{4.005, 2, 4.01},
		{4.0, 2, 4.0},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{0, 2, 0},
	}

	for _, tt := range tests {
		if got := RoundHalfUp(tt.in, tt.places); got != tt.want {
			t.Errorf("RoundHalfUp(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestComputeAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scores  []int
		wantAvg float64
		wantCnt int
	}{
		{"empty", nil, 0, 0},
		{"single", []int{5}, 5, 1},
		{"mixed high", []int{4, 5, 4}, 4.33, 3},
		{"mixed low", []int{3, 4, 3}, 3.33, 3},
		{"boundary", []int{4, 4, 4}, 4.0, 3},
		{"two fives", []int{5, 5}, 5, 2},
		{"two thirds up", []int{1, 2, 2}, 1.67, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeAggregate(tt.scores)
			if got.AverageRating != tt.wantAvg || got.RatingCount != tt.wantCnt {
				t.Errorf("ComputeAggregate(%v) = %+v, want avg=%v count=%d", tt.scores, got, tt.wantAvg, tt.wantCnt)
			}
		})
	}
}

func TestComputeAggregate_OrderIndependent(t *testing.T) {
	t.Parallel()

	perms := [][]int{
		{4, 5, 4, 1, 3},
		{1, 3, 4, 4, 5},
		{5, 4, 3, 4, 1},
	}
	want := ComputeAggregate(perms[0])
	for _, p := range perms {
		if got := ComputeAggregate(p); got != want {
			t.Errorf("ComputeAggregate(%v) = %+v, want %+v", p, got, want)
		}
		if again := ComputeAggregate(p); again != want {
			t.Errorf("recompute of %v changed: %+v", p, again)
		}
	}
}

func TestShouldAutoApprove(t *testing.T) {
	t.Parallel()

	thresholds := DefaultThresholds()
	pending := &models.Recipe{RecipeID: "r1"}
	approved := &models.Recipe{RecipeID: "r1", IsApproved: true}

	tests := []struct {
		name   string
		recipe *models.Recipe
		agg    models.Aggregate
		want   bool
	}{
		{"qualifies", pending, models.Aggregate{AverageRating: 4.33, RatingCount: 3}, true},
		{"boundary inclusive", pending, models.Aggregate{AverageRating: 4.0, RatingCount: 3}, true},
		{"average too low", pending, models.Aggregate{AverageRating: 3.99, RatingCount: 10}, false},
		{"count gate", pending, models.Aggregate{AverageRating: 5, RatingCount: 2}, false},
		{"already approved", approved, models.Aggregate{AverageRating: 5, RatingCount: 9}, false},
		{"nil recipe", nil, models.Aggregate{AverageRating: 5, RatingCount: 9}, false},
	}

	for _, tt := range tests {
		if got := ShouldAutoApprove(tt.recipe, tt.agg, thresholds); got != tt.want {
			t.Errorf("%s: ShouldAutoApprove = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRoundedAverage(t *testing.T) {
	t.Parallel()

	if got := RoundedAverage(0, 0); got != 0 {
		t.Errorf("RoundedAverage(0, 0) = %v, want 0", got)
	}
	if got := RoundedAverage(13, 3); got != 4.33 {
		t.Errorf("RoundedAverage(13, 3) = %v, want 4.33", got)
	}
}
