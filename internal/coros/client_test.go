package coros

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParsePlanURL verifies plan ID and region extraction from share URLs.
func TestParsePlanURL(t *testing.T) {
	tests := []struct {
		url             string
		wantID, wantReg string
		wantErr         bool
	}{
		{"https://t.coros.com/training-plan?planId=123456&region=2", "123456", "2", false},
		{"https://t.coros.com/training-plan?planId=987", "987", "1", false},
		{"https://t.coros.com/training-plan", "", "", true},
		{"not a url at all", "", "", true},
	}
	for _, tt := range tests {
		id, region, err := ParsePlanURL(tt.url)
		if tt.wantErr {
			if !errors.Is(err, ErrBadPlanURL) {
				t.Errorf("ParsePlanURL(%q) err = %v, want ErrBadPlanURL", tt.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePlanURL(%q) unexpected error: %v", tt.url, err)
			continue
		}
		if id != tt.wantID || region != tt.wantReg {
			t.Errorf("ParsePlanURL(%q) = %q, %q, want %q, %q", tt.url, id, region, tt.wantID, tt.wantReg)
		}
	}
}

// TestFetchPlan verifies the client requests the detail endpoint with the
// expected query parameters and decodes the response into a plan.
func TestFetchPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/training/plan/detail" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("id") != "123456" {
			t.Errorf("id = %q, want 123456", q.Get("id"))
		}
		if q.Get("region") != "2" {
			t.Errorf("region = %q, want 2", q.Get("region"))
		}
		if q.Get("supportRestExercise") != "1" {
			t.Errorf("supportRestExercise = %q, want 1", q.Get("supportRestExercise"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, sampleDetailJSON)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testDict, 5*time.Second, discardLogger())
	p, err := c.FetchPlan(context.Background(), "https://t.coros.com/plan?planId=123456&region=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 3 {
		t.Errorf("workouts = %d, want 3", p.Len())
	}
}

// TestFetchPlanUpstreamError verifies non-200 responses surface as errors.
func TestFetchPlanUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil, 5*time.Second, discardLogger())
	if _, err := c.FetchPlan(context.Background(), "https://t.coros.com/plan?planId=1"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

// TestFetchPlanBadURL verifies a URL without a plan ID fails before any
// request is made.
func TestFetchPlanBadURL(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", nil, time.Second, discardLogger())
	if _, err := c.FetchPlan(context.Background(), "https://t.coros.com/plan"); !errors.Is(err, ErrBadPlanURL) {
		t.Errorf("err = %v, want ErrBadPlanURL", err)
	}
}
