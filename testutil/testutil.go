// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-fund/cliparse"
	"github.com/danielhkuo/quickly-fund/db"
	"github.com/danielhkuo/quickly-fund/models"
)

// SetupTestStore creates a run archive backed by a fresh in-memory SQLite database
func SetupTestStore(t *testing.T) *db.RunStore {
	t.Helper()

	conn, err := db.Connect(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	store, err := db.NewRunStore(conn, db.TypeSQLite)
	if err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		Limits:       cliparse.DefaultLimits(),
	}
}

// WorkedScenario is the three-bloc city instance: 15 A>B>C>D, 15 B>A>C>D,
// 70 D>C>B>A with budget 100. PB-EAR funds D, C, B.
func WorkedScenario() models.AllocateRequest {
	return models.AllocateRequest{
		Budget: 100,
		Projects: []models.ProjectInput{
			{Name: "A", Cost: 50},
			{Name: "B", Cost: 30},
			{Name: "C", Cost: 30},
			{Name: "D", Cost: 40},
		},
		VoterGroups: []models.VoterGroupInput{
			{Count: 15, Weight: 1, Ranking: []string{"A", "B", "C", "D"}},
			{Count: 15, Weight: 1, Ranking: []string{"B", "A", "C", "D"}},
			{Count: 70, Weight: 1, Ranking: []string{"D", "C", "B", "A"}},
		},
	}
}

// SaveTestRun archives a minimal run computed at the given time and returns its ID
func SaveTestRun(t *testing.T, store *db.RunStore, id string, computedAt time.Time) string {
	t.Helper()

	req := models.AllocateRequest{
		Budget:   10,
		Projects: []models.ProjectInput{{Name: "a", Cost: 5}},
		Voters:   []models.VoterInput{{Weight: 1, Ranking: []string{"a"}}},
	}
	run := models.Run{
		ID:           id,
		Budget:       10,
		ProjectCount: 1,
		VoterCount:   1,
		Request:      req,
		Result: models.AllocateResponse{
			RunID:      id,
			Budget:     10,
			Selected:   []models.ProjectResult{{Name: "a", Cost: 5}},
			TotalSpent: 5,
			Leftover:   5,
			ComputedAt: computedAt,
		},
		ComputedAt: computedAt,
	}
	if err := store.SaveRun(t.Context(), run); err != nil {
		t.Fatalf("Failed to save test run: %v", err)
	}
	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
