// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package rating

import (
	"math"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// AveragePlaces is the number of decimal places kept on average_rating.
const AveragePlaces = 2

// roundingEpsilon absorbs binary representation error so that values such as
// 4.335 round up as they would in decimal.
const roundingEpsilon = 1e-9

// Thresholds gate auto-approval.
type Thresholds struct {
	MinCount   int
	MinAverage float64
}

// DefaultThresholds requires at least three ratings averaging 4.0 or more.
func DefaultThresholds() Thresholds {
	return Thresholds{MinCount: 3, MinAverage: 4.0}
}

// RoundHalfUp rounds v to the given number of decimal places, with halves
// rounding away from zero.
func RoundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	if v < 0 {
		return -math.Floor(-v*scale+0.5+roundingEpsilon) / scale
	}
	return math.Floor(v*scale+0.5+roundingEpsilon) / scale
}

// RoundedAverage returns sum/count rounded to AveragePlaces. A zero count
// yields zero.
func RoundedAverage(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return RoundHalfUp(float64(sum)/float64(count), AveragePlaces)
}

// ComputeAggregate derives the average and count from a full set of scores.
// The result depends only on the multiset of scores.
func ComputeAggregate(scores []int) models.Aggregate {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return models.Aggregate{
		AverageRating: RoundedAverage(sum, len(scores)),
		RatingCount:   len(scores),
		RatingSum:     sum,
	}
}

// ShouldAutoApprove reports whether a pending recipe has earned approval.
// An approved recipe never qualifies again.
func ShouldAutoApprove(recipe *models.Recipe, agg models.Aggregate, t Thresholds) bool {
	if recipe == nil || recipe.IsApproved {
		return false
	}
	return agg.RatingCount >= t.MinCount && agg.AverageRating >= t.MinAverage
}

func scoresOf(ratings []models.Rating) []int {
	scores := make([]int, len(ratings))
	for i := range ratings {
		scores[i] = ratings[i].Rating
	}
	return scores
}
