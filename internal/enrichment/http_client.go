// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package enrichment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/nvtruongops/smart-cooking-sub003/internal/logging"
	"github.com/nvtruongops/smart-cooking-sub003/internal/metrics"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
)

// EnrichPath is the catalog endpoint, relative to the base URL.
const EnrichPath = "/internal/catalog/enrich"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// StatusError is returned for a non-2xx catalog response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the catalog may accept the same request later.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// HTTPClient posts enrichment requests to the catalog service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for baseURL (e.g. http://catalog:8081).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type enrichRequest struct {
	RecipeID string `json:"recipe_id"`
}

// EnrichFromApprovedRecipe asks the catalog to add the recipe's unknown
// ingredients.
func (c *HTTPClient) EnrichFromApprovedRecipe(ctx context.Context, recipeID string) (models.EnrichmentResult, error) {
	var result models.EnrichmentResult
	start := time.Now()

	body, err := json.Marshal(enrichRequest{RecipeID: recipeID})
	if err != nil {
		return result, fmt.Errorf("marshal enrich request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EnrichPath, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return result, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decode enrich response: %w", err)
	}

	metrics.RecordEnrichment(time.Since(start), result.NewIngredients)
	return result, nil
}
