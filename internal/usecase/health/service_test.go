package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockEngine struct {
	err error
}

func (m *mockEngine) Ready() error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name     string
		dbErr    error
		engine   EngineChecker
		status   Status
		database CheckResult
		search   CheckResult
	}{
		{"all healthy", nil, &mockEngine{}, Healthy, CheckOK, CheckOK},
		{"db down", down, &mockEngine{}, Degraded, CheckError, CheckOK},
		{"engine closed", nil, &mockEngine{err: down}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockEngine{err: down}, Unhealthy, CheckError, CheckError},
		{"no engine", nil, nil, Healthy, CheckOK, ""},
		{"no engine db down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tt.dbErr}, tt.engine).Check(context.Background())

			if r.Status != tt.status {
				t.Errorf("expected %q, got %q", tt.status, r.Status)
			}
			if r.Checks["database"] != tt.database {
				t.Errorf("expected database %q, got %q", tt.database, r.Checks["database"])
			}
			got, ok := r.Checks["search"]
			if tt.search == "" {
				if ok {
					t.Error("search check should be absent when engine is nil")
				}
				return
			}
			if got != tt.search {
				t.Errorf("expected search %q, got %q", tt.search, got)
			}
		})
	}
}
