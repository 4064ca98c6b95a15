package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestStatus_Worse(t *testing.T) {
	if got := StatusHealthy.Worse(StatusDegraded); got != StatusDegraded {
		t.Errorf("Healthy.Worse(Degraded) = %v", got)
	}
	if got := StatusUnhealthy.Worse(StatusDegraded); got != StatusUnhealthy {
		t.Errorf("Unhealthy.Worse(Degraded) = %v", got)
	}
}

func TestResultConstructors(t *testing.T) {
	errDown := errors.New("down")

	if r := Healthy("ok"); r.Status != StatusHealthy || r.Message != "ok" || r.Timestamp.IsZero() {
		t.Errorf("Healthy() = %+v", r)
	}
	if r := Degraded("slow"); r.Status != StatusDegraded || r.Error != nil {
		t.Errorf("Degraded() = %+v", r)
	}
	r := Unhealthy("broken", errDown).WithDetails(map[string]any{"k": 1})
	if r.Status != StatusUnhealthy || r.Error != errDown || r.Details["k"] != 1 {
		t.Errorf("Unhealthy().WithDetails() = %+v", r)
	}
}

func TestCheckerFunc(t *testing.T) {
	c := NewCheckerFunc("db", func(ctx context.Context) Result {
		return Degraded("lagging")
	})

	if c.Name() != "db" {
		t.Errorf("Name() = %q, want db", c.Name())
	}
	if r := c.Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("Check().Status = %v, want degraded", r.Status)
	}
}
