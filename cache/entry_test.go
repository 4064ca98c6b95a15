package cache

import (
	"errors"
	"testing"
	"time"
)

func TestEntry_Expired(t *testing.T) {
	exp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := Entry[int]{Value: 1, ExpiresAt: exp}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", exp.Add(-time.Millisecond), false},
		{"at expiry", exp, false},
		{"after", exp.Add(time.Nanosecond), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Expired(tt.now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Kind(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry[int]
		wantError   bool
		wantPending bool
	}{
		{"value", Entry[int]{Value: 1}, false, false},
		{"pending", Entry[int]{Pending: NewFuture[int]()}, false, true},
		{"error", Entry[int]{Err: errors.New("x")}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsError(); got != tt.wantError {
				t.Errorf("IsError() = %v, want %v", got, tt.wantError)
			}
			if got := tt.entry.IsPending(); got != tt.wantPending {
				t.Errorf("IsPending() = %v, want %v", got, tt.wantPending)
			}
		})
	}
}
