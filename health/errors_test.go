package health

import (
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{
		ErrThresholdExceeded,
		ErrCheckTimeout,
		ErrCheckerNotFound,
		ErrInvalidConfig,
		ErrNilSizer,
		ErrNilChecker,
	} {
		if !strings.HasPrefix(err.Error(), "health: ") {
			t.Errorf("error %q lacks the health: prefix", err)
		}
	}
}
