// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package enrichment calls the ingredient catalog so that ingredients of a
// newly approved recipe are added to the shared catalog.
package enrichment

import (
	"context"

	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// Client enriches the ingredient catalog from an approved recipe. Calls must
// be safe to repeat for the same recipe.
type Client interface {
	EnrichFromApprovedRecipe(ctx context.Context, recipeID string) (models.EnrichmentResult, error)
}

// NoopClient is used when no catalog service is configured.
type NoopClient struct{}

// EnrichFromApprovedRecipe returns an empty result.
func (NoopClient) EnrichFromApprovedRecipe(context.Context, string) (models.EnrichmentResult, error) {
	return models.EnrichmentResult{}, nil
}

var (
	_ Client = NoopClient{}
	_ Client = (*HTTPClient)(nil)
	_ Client = (*BreakerClient)(nil)
)
