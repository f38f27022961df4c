package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockModel struct{ features int }

func (m *mockModel) Features() int { return m.features }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockVectorizerChecker struct {
	err error
}

func (m *mockVectorizerChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_ModelOnly(t *testing.T) {
	svc := New(&mockModel{features: 68}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["model"] != CheckOK {
		t.Errorf("expected model %q, got %q", CheckOK, r.Checks["model"])
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
	if _, ok := r.Checks["vectorizer"]; ok {
		t.Error("vectorizer check should be absent when vectorizer is nil")
	}
}

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockModel{features: 4}, &mockPinger{}, &mockVectorizerChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["cache"] != CheckOK || r.Checks["vectorizer"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockModel{features: 4}, &mockPinger{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_VectorizerError(t *testing.T) {
	svc := New(&mockModel{features: 4}, nil, &mockVectorizerChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["vectorizer"] != CheckError {
		t.Errorf("expected vectorizer %q, got %q", CheckError, r.Checks["vectorizer"])
	}
}

func TestCheck_NoModel(t *testing.T) {
	svc := New(nil, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["model"] != CheckError {
		t.Error("expected model error")
	}
}
