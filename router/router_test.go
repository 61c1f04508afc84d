// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-fund/models"
	"github.com/danielhkuo/quickly-fund/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	mux := NewRouter(nil, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := NewRouter(nil, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-fund API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mux := NewRouter(store, testutil.GetTestConfig())

	// Handlers may answer 400 or 404 for these; only 405 means no route
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/allocations"},
		{"GET", "/allocations"},
		{"GET", "/allocations/test-id"},
		{"GET", "/allocations/test-id/export"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := NewRouter(nil, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/allocations/test-id"},
		{"PUT", "/allocations"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAllocateThroughRouter(t *testing.T) {
	store := testutil.SetupTestStore(t)
	mux := NewRouter(store, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/allocations", testutil.WorkedScenario(), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AllocateResponse
	testutil.AssertJSON(t, w, &resp)

	// Path parameter reaches the handler
	req = httptest.NewRequest("GET", "/allocations/"+resp.RunID, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var run models.Run
	testutil.AssertJSON(t, w, &run)
	if run.ID != resp.RunID {
		t.Errorf("Expected run '%s', got '%s'", resp.RunID, run.ID)
	}
}
