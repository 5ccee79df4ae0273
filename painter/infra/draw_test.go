package infra

import (
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-bot/painter/domain"
)

func TestClassifyDraw(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   domain.DrawKind
		wait   time.Duration
		reason domain.FailureReason
	}{
		{"accepted", http.StatusOK, `{"wait_seconds":5}`, domain.DrawAccepted, 5 * time.Second, ""},
		{"accepted fractional", http.StatusOK, `{"wait_seconds":1.5}`, domain.DrawAccepted, 1500 * time.Millisecond, ""},
		{"accepted zero", http.StatusOK, `{"wait_seconds":0}`, domain.DrawAccepted, 0, ""},
		{"rate limited", http.StatusTooManyRequests, `{"wait_seconds":12}`, domain.DrawRateLimited, 12 * time.Second, ""},
		{"negative clamps", http.StatusTooManyRequests, `{"wait_seconds":-3}`, domain.DrawRateLimited, 0, ""},
		{"huge wait saturates", http.StatusTooManyRequests, `{"wait_seconds":1e10}`, domain.DrawRateLimited, time.Duration(math.MaxInt64), ""},
		{"absurd wait saturates", http.StatusOK, `{"wait_seconds":1e300}`, domain.DrawAccepted, time.Duration(math.MaxInt64), ""},
		{"ok garbage", http.StatusOK, `nope`, domain.DrawFailed, 0, domain.FailDecode},
		{"ok without wait", http.StatusOK, `{}`, domain.DrawFailed, 0, domain.FailDecode},
		{"429 garbage", http.StatusTooManyRequests, `Too Many Requests`, domain.DrawFailed, 0, domain.FailDecode},
		{"server error", http.StatusInternalServerError, `{"wait_seconds":5}`, domain.DrawFailed, 0, domain.FailStatus},
		{"created is not ok", http.StatusCreated, `{"wait_seconds":5}`, domain.DrawFailed, 0, domain.FailStatus},
		{"forbidden", http.StatusForbidden, `{"error":403}`, domain.DrawFailed, 0, domain.FailStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ClassifyDraw(tc.status, []byte(tc.body))
			require.Equal(t, tc.kind, res.Kind)
			if tc.kind != domain.DrawFailed {
				assert.NoError(t, res.Err)
				assert.Equal(t, tc.wait, res.Wait)
				return
			}
			var de *domain.DrawError
			require.ErrorAs(t, res.Err, &de)
			assert.Equal(t, tc.reason, de.Reason)
			assert.Equal(t, tc.status, de.StatusCode)
		})
	}
}

func TestClassifyDraw_AuthStatusesRejectSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		res := ClassifyDraw(status, nil)
		assert.True(t, errors.Is(res.Err, domain.ErrSessionRejected), "status %d", status)
	}
	res := ClassifyDraw(http.StatusInternalServerError, nil)
	assert.False(t, errors.Is(res.Err, domain.ErrSessionRejected))
}

func TestSecondsToDuration_NeverNegative(t *testing.T) {
	for _, v := range []float64{-1, 0, 1e-12, 0.5, 9.2e9, 9.3e9, 1e18, math.Inf(1), math.NaN()} {
		assert.GreaterOrEqual(t, secondsToDuration(v), time.Duration(0), "wait_seconds=%v", v)
	}
	assert.Equal(t, time.Nanosecond, secondsToDuration(1e-12))
}
