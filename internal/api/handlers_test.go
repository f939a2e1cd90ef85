// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
	"github.com/nvtruongops/smart-cooking-sub003/internal/approval"
	"github.com/nvtruongops/smart-cooking-sub003/internal/enrichment"
	"github.com/nvtruongops/smart-cooking-sub003/internal/models"
	"github.com/nvtruongops/smart-cooking-sub003/internal/rating"
)

func TestSubmitRating_EndToEnd(t *testing.T) {
	t.Parallel()

	st := newStack(t)
	st.seedRecipe(t, "rec-1", "owner-1")

	scores := []int{5, 4, 4}
	var last rating.SubmitResult
	for i, score := range scores {
		rec := st.do(t, http.MethodPost, "/api/v1/recipes/rec-1/ratings", fmt.Sprintf("user-%d", i), map[string]interface{}{
			"rating":  score,
			"comment": "ngon",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("submission %d: status %d body %s", i, rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if !env.Success || env.Meta == nil || env.Meta.RequestID == "" {
			t.Fatalf("submission %d: unexpected envelope %+v", i, env)
		}
		decodeData(t, env, &last)
	}

	if !last.AutoApproved || last.Message != rating.MessageAutoApproved {
		t.Errorf("third rating should auto-approve, got %+v", last)
	}
	if last.AverageRating != 4.33 || last.RatingCount != 3 {
		t.Errorf("aggregate = %.2f/%d, want 4.33/3", last.AverageRating, last.RatingCount)
	}
	if last.Rating.UserID != "user-2" {
		t.Errorf("rater should come from the caller identity, got %q", last.Rating.UserID)
	}

	// The owner was notified synchronously.
	rec := st.do(t, http.MethodGet, "/api/v1/users/owner-1/notifications", "owner-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications: status %d body %s", rec.Code, rec.Body.String())
	}
	var list NotificationList
	decodeData(t, decodeEnvelope(t, rec), &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(list.Notifications))
	}
	if want := approval.NotificationContent("Pho bo", 4.33, 3); list.Notifications[0].Content != want {
		t.Errorf("content = %q, want %q", list.Notifications[0].Content, want)
	}
}

func TestSubmitRating_EnrichmentDown(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(catalog.Close)

	st := newStackWithEnricher(t, enrichment.NewHTTPClient(catalog.URL, time.Second))
	st.seedRecipe(t, "rec-1", "owner-1")

	var last rating.SubmitResult
	for i, score := range []int{5, 4, 4} {
		rec := st.do(t, http.MethodPost, "/api/v1/recipes/rec-1/ratings", fmt.Sprintf("user-%d", i), map[string]int{"rating": score})
		if rec.Code != http.StatusCreated {
			t.Fatalf("submission %d: status %d body %s", i, rec.Code, rec.Body.String())
		}
		decodeData(t, decodeEnvelope(t, rec), &last)
	}

	if !last.AutoApproved || last.Message != rating.MessageAutoApproved {
		t.Errorf("approval should survive an enrichment outage, got %+v", last)
	}
	if calls.Load() == 0 {
		t.Fatal("catalog was never called")
	}

	recipe, err := st.recipes.Get(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !recipe.IsApproved || recipe.ApprovalType != models.ApprovalTypeAutoRating || recipe.ApprovedAt == nil {
		t.Errorf("recipe not stored as approved: %+v", recipe)
	}

	rec := st.do(t, http.MethodGet, "/api/v1/users/owner-1/notifications", "owner-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications: status %d body %s", rec.Code, rec.Body.String())
	}
	var list NotificationList
	decodeData(t, decodeEnvelope(t, rec), &list)
	if len(list.Notifications) != 1 {
		t.Fatalf("expected one notification despite the enrichment failure, got %d", len(list.Notifications))
	}
	if want := approval.NotificationContent("Pho bo", 4.33, 3); list.Notifications[0].Content != want {
		t.Errorf("content = %q, want %q", list.Notifications[0].Content, want)
	}
}

func TestSubmitRating_Errors(t *testing.T) {
	t.Parallel()

	st := newStack(t)
	st.seedRecipe(t, "rec-1", "owner-1")
	if rec := st.do(t, http.MethodPost, "/api/v1/recipes/rec-1/ratings", "dup", map[string]int{"rating": 3}); rec.Code != http.StatusCreated {
		t.Fatalf("seed rating: status %d", rec.Code)
	}

	tests := []struct {
		name     string
		recipe   string
		user     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"anonymous", "rec-1", "", map[string]int{"rating": 4}, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"rating too high", "rec-1", "u1", map[string]int{"rating": 6}, http.StatusBadRequest, apperror.CodeValidation},
		{"rating missing", "rec-1", "u1", map[string]string{"comment": "hi"}, http.StatusBadRequest, apperror.CodeValidation},
		{"unknown recipe", "nope", "u1", map[string]int{"rating": 4}, http.StatusNotFound, apperror.CodeRecipeNotFound},
		{"already rated", "rec-1", "dup", map[string]int{"rating": 5}, http.StatusConflict, apperror.CodeAlreadyRated},
		{"empty body", "rec-1", "u1", nil, http.StatusBadRequest, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := st.do(t, http.MethodPost, "/api/v1/recipes/"+tt.recipe+"/ratings", tt.user, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
			if env.Error.RequestID == "" {
				t.Error("error response should carry the request id")
			}
			if strings.Contains(rec.Body.String(), "goroutine") {
				t.Error("error response leaked a stack trace")
			}
		})
	}
}

func TestSubmitRating_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := NewHandler(&fakeRatings{}, nil)
	router := newTestRouter(t, h, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/rec-1/ratings", strings.NewReader("{not json"))
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error.Details.(map[string]interface{})["field"] != "body" {
		t.Errorf("expected body field in details, got %+v", env.Error.Details)
	}
}

func TestSubmitRating_IgnoresBodyUserID(t *testing.T) {
	t.Parallel()

	fake := &fakeRatings{}
	router := newTestRouter(t, NewHandler(fake, nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/rec-1/ratings",
		strings.NewReader(`{"rating": 4, "user_id": "someone-else", "history_id": "h-1"}`))
	req.Header.Set("X-User-ID", "caller")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if fake.lastSubmit.UserID != "caller" || fake.lastSubmit.RecipeID != "rec-1" || fake.lastSubmit.HistoryID != "h-1" {
		t.Errorf("unexpected submit input %+v", fake.lastSubmit)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryAfter string
	}{
		{"validation", apperror.Validation("limit", "bad"), http.StatusBadRequest, apperror.CodeValidation, ""},
		{"not found", apperror.NotFound("rating", "x"), http.StatusNotFound, apperror.CodeNotFound, ""},
		{"conflict", apperror.Conflict("changed"), http.StatusConflict, apperror.CodeConflict, ""},
		{"rate limited", apperror.RateLimited("store.Get", 1500*time.Millisecond, nil), http.StatusTooManyRequests, apperror.CodeRateLimited, "2"},
		{"database", apperror.Database("store.Put", 0, errors.New("io")), http.StatusInternalServerError, apperror.CodeDatabase, ""},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, apperror.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t, NewHandler(&fakeRatings{queryErr: tt.err}, nil), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/ratings", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Retry-After"); got != tt.retryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.retryAfter)
			}
			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want %s", env.Error, tt.wantCode)
			}
			details, ok := env.Error.Details.(map[string]interface{})
			if !ok || details["timestamp"] == nil {
				t.Errorf("details should carry a timestamp, got %+v", env.Error.Details)
			}
			if strings.Contains(rec.Body.String(), "boom") {
				t.Error("internal cause leaked to the client")
			}
		})
	}
}

func TestRecipeRatings_Pagination(t *testing.T) {
	t.Parallel()

	st := newStack(t)
	st.seedRecipe(t, "rec-p", "owner-p")
	for i := 0; i < 5; i++ {
		// score 2 keeps the recipe below the approval threshold
		if rec := st.do(t, http.MethodPost, "/api/v1/recipes/rec-p/ratings", fmt.Sprintf("u-%d", i), map[string]int{"rating": 2}); rec.Code != http.StatusCreated {
			t.Fatalf("seed rating %d: %d", i, rec.Code)
		}
	}

	seen := map[string]bool{}
	token := ""
	pages := 0
	for {
		target := "/api/v1/recipes/rec-p/ratings?limit=2"
		if token != "" {
			target += "&page_token=" + token
		}
		rec := st.do(t, http.MethodGet, target, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("page %d: status %d body %s", pages, rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		var page rating.RecipeRatings
		decodeData(t, env, &page)
		pages++

		if page.RatingCount != 5 || page.AverageRating != 2 {
			t.Errorf("aggregate = %.2f/%d", page.AverageRating, page.RatingCount)
		}
		if env.Meta.Pagination == nil || env.Meta.Pagination.Limit != 2 || env.Meta.Pagination.Count != len(page.Ratings) {
			t.Errorf("pagination meta = %+v", env.Meta.Pagination)
		}
		for _, r := range page.Ratings {
			if seen[r.RatingID] {
				t.Errorf("rating %s returned twice", r.RatingID)
			}
			seen[r.RatingID] = true
		}
		if page.NextPageToken == "" {
			if env.Meta.Pagination.HasMore {
				t.Error("has_more set on the last page")
			}
			break
		}
		token = page.NextPageToken
	}

	if len(seen) != 5 || pages != 3 {
		t.Errorf("saw %d ratings over %d pages, want 5 over 3", len(seen), pages)
	}
}

func TestListQuery_Invalid(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, NewHandler(&fakeRatings{}, nil), nil)
	for _, q := range []string{"limit=abc", "limit=-1", "page_token=" + strings.Repeat("a", 1025)} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/r/ratings?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestInvalidPageToken(t *testing.T) {
	t.Parallel()

	st := newStack(t)
	st.seedRecipe(t, "rec-t", "owner-t")

	rec := st.do(t, http.MethodGet, "/api/v1/recipes/rec-t/ratings?page_token=%25%25garbage", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestUserNotifications_OwnerOnly(t *testing.T) {
	t.Parallel()

	st := newStack(t)

	tests := []struct {
		name   string
		caller string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"other user", "intruder", http.StatusForbidden},
		{"owner", "owner-1", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := st.do(t, http.MethodGet, "/api/v1/users/owner-1/notifications", tt.caller, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	failing := ReadinessCheck{Name: "events", Check: func(_ context.Context) error { return errors.New("not running") }}

	tests := []struct {
		name   string
		path   string
		checks []ReadinessCheck
		want   int
	}{
		{"live", "/api/v1/health/live", []ReadinessCheck{failing}, http.StatusOK},
		{"ready without checks", "/api/v1/health/ready", nil, http.StatusOK},
		{"not ready", "/api/v1/health/ready", []ReadinessCheck{failing}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t, NewHandler(&fakeRatings{}, nil, tt.checks...), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_NotFoundAndMetrics(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, NewHandler(&fakeRatings{}, nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
	if rec.Code != http.StatusNotFound || decodeEnvelope(t, rec).Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Errorf("metrics endpoint: status %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultEdgeConfig()
	cfg.RateLimit = 2
	router := newTestRouter(t, NewHandler(&fakeRatings{}, nil), &cfg)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/u1/ratings", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if env := decodeEnvelope(t, last); env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	edge := EdgeConfig{AllowedOrigins: []string{"https://app.example.com"}}
	router := newTestRouter(t, NewHandler(&fakeRatings{}, nil), &edge)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/recipes/rec-1/ratings", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
