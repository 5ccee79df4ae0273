package fakecanvas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-bot/painter/domain"
	"place-bot/painter/infra"
)

func newTestServer(t *testing.T, opts Options) (*Server, *infra.Client) {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 8, 8
	}
	opts.Log = zerolog.Nop()
	srv := NewServer(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hc := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	return srv, infra.NewClient(infra.WithBaseURL(ts.URL), infra.WithHTTPClient(hc))
}

func TestServer_LoginReadDrawRoundTrip(t *testing.T) {
	srv, c := newTestServer(t, Options{Cooldown: time.Minute})
	ctx := context.Background()

	s, err := c.Authenticate(ctx, domain.Credential{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Modhash)
	require.Len(t, s.Cookies, 1)
	assert.True(t, strings.HasPrefix(s.Cookies[0], sessionCookie+"="))

	px, err := c.ReadPixel(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), px.Color)

	res := c.Draw(ctx, s, domain.Target{X: 3, Y: 4, Color: 9})
	require.Equal(t, domain.DrawAccepted, res.Kind, "err: %v", res.Err)
	assert.Equal(t, time.Minute, res.Wait)

	px, err = c.ReadPixel(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), px.Color)
	assert.Equal(t, "alice", px.UserName)

	res = c.Draw(ctx, s, domain.Target{X: 1, Y: 1, Color: 2})
	require.Equal(t, domain.DrawRateLimited, res.Kind, "err: %v", res.Err)
	assert.Greater(t, res.Wait, time.Duration(0))

	assert.Equal(t, int64(1), srv.Logins())
	assert.Equal(t, int64(1), srv.Draws())
	assert.Equal(t, int64(1), srv.RateLimitedDraws())
}

func TestServer_WrongPasswordHasNoModhash(t *testing.T) {
	_, c := newTestServer(t, Options{Passwords: map[string]string{"alice": "secret"}})

	_, err := c.Authenticate(context.Background(), domain.Credential{Username: "alice", Password: "nope"})
	var ae *domain.AuthError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, domain.AuthDecode, ae.Reason)

	_, err = c.Authenticate(context.Background(), domain.Credential{Username: "alice", Password: "secret"})
	require.NoError(t, err)
}

func TestServer_ExpiredSessionIsRejected(t *testing.T) {
	srv, c := newTestServer(t, Options{})
	ctx := context.Background()

	s, err := c.Authenticate(ctx, domain.Credential{Username: "alice"})
	require.NoError(t, err)

	srv.Expire("alice")

	res := c.Draw(ctx, s, domain.Target{X: 0, Y: 0, Color: 1})
	require.Equal(t, domain.DrawFailed, res.Kind)
	assert.ErrorIs(t, res.Err, domain.ErrSessionRejected)
}

func TestServer_DrawRequiresMatchingModhash(t *testing.T) {
	_, c := newTestServer(t, Options{})
	ctx := context.Background()

	s, err := c.Authenticate(ctx, domain.Credential{Username: "alice"})
	require.NoError(t, err)

	forged := *s
	forged.Modhash = "forged"
	res := c.Draw(ctx, &forged, domain.Target{X: 0, Y: 0, Color: 1})
	require.Equal(t, domain.DrawFailed, res.Kind)
	assert.ErrorIs(t, res.Err, domain.ErrSessionRejected)
}

func TestServer_PixelOutOfBounds(t *testing.T) {
	_, c := newTestServer(t, Options{Width: 2, Height: 2})

	_, err := c.ReadPixel(context.Background(), 5, 0)
	require.Error(t, err)
	var se *infra.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestServer_RejectsMalformedRequests(t *testing.T) {
	srv := NewServer(Options{Width: 2, Height: 2, Log: zerolog.Nop()})
	h := srv.Handler()

	cases := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"pixel without coords", httptest.NewRequest(http.MethodGet, "/api/place/pixel.json", nil), http.StatusBadRequest},
		{"draw without session", httptest.NewRequest(http.MethodPost, "/api/place/draw.json", nil), http.StatusForbidden},
		{"login wrong op", loginRequest("alice", url.Values{"op": {"nope"}, "user": {"alice"}, "api_type": {"json"}}), http.StatusBadRequest},
		{"login user mismatch", loginRequest("alice", url.Values{"op": {"login"}, "user": {"bob"}, "api_type": {"json"}}), http.StatusBadRequest},
		{"wrong method", httptest.NewRequest(http.MethodGet, "/api/place/draw.json", nil), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func loginRequest(user string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/login/"+user, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestBoard_Matches(t *testing.T) {
	b := NewBoard(4, 4)
	img, err := domain.NewReferenceImage(2, 1, []uint8{3, 0})
	require.NoError(t, err)
	off := domain.Offset{X: 1, Y: 2}

	assert.False(t, b.Matches(img, off))
	b.Set(1, 2, 3, "alice")
	assert.True(t, b.Matches(img, off))

	assert.False(t, b.Matches(img, domain.Offset{X: 3, Y: 3}), "region outside the board never matches")
}

func TestServer_RateLimitedDrawCarriesRetryAfter(t *testing.T) {
	srv := NewServer(Options{Width: 2, Height: 2, Cooldown: 90 * time.Second, Log: zerolog.Nop()})
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, loginRequest("alice", url.Values{"op": {"login"}, "user": {"alice"}, "api_type": {"json"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	var body struct {
		JSON struct {
			Data struct {
				Modhash string `json:"modhash"`
			} `json:"data"`
		} `json:"json"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	draw := func() *httptest.ResponseRecorder {
		form := url.Values{"x": {"1"}, "y": {"1"}, "color": {"3"}}
		r := httptest.NewRequest(http.MethodPost, "/api/place/draw.json", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("x-modhash", body.JSON.Data.Modhash)
		r.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	first := draw()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("Retry-After"))

	second := draw()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "90", second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "wait_seconds")
}
