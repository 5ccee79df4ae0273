package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"place-bot/painter/domain"
)

type drawResponse struct {
	WaitSeconds *float64 `json:"wait_seconds"`
}

var errMissingWait = errors.New("response has no wait_seconds")

// Draw envia uma requisição de pintura e classifica a resposta.
// Exatamente uma ida e volta por chamada, sem retry.
func (c *Client) Draw(ctx context.Context, s *domain.Session, t domain.Target) domain.DrawResult {
	form := url.Values{}
	form.Set("x", strconv.FormatUint(uint64(t.X), 10))
	form.Set("y", strconv.FormatUint(uint64(t.Y), 10))
	form.Set("color", strconv.Itoa(int(t.Color)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+drawEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Failed(domain.FailTransport, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s != nil {
		req.Header.Set("x-modhash", s.Modhash)
		if ck := s.CookieHeader(); ck != "" {
			req.Header.Set("Cookie", ck)
		}
	}

	resp, err := c.do(req)
	if err != nil {
		return domain.Failed(domain.FailTransport, 0, err)
	}
	return ClassifyDraw(resp.status, resp.body)
}

// ClassifyDraw é função pura de (status HTTP, corpo):
//
//	200 + wait_seconds decodificável => Accepted(wait)
//	429 + wait_seconds decodificável => RateLimited(wait)
//	qualquer outra coisa             => Failed
//
// 401/403 também é Failed, mas embrulha domain.ErrSessionRejected para que o
// controller descarte a sessão.
func ClassifyDraw(status int, body []byte) domain.DrawResult {
	switch status {
	case http.StatusOK, http.StatusTooManyRequests:
		wait, err := decodeWait(body)
		if err != nil {
			return domain.Failed(domain.FailDecode, status, err)
		}
		if status == http.StatusOK {
			return domain.Accepted(wait)
		}
		return domain.RateLimited(wait)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.Failed(domain.FailStatus, status,
			fmt.Errorf("%w: %w", domain.ErrSessionRejected, buildStatusError(status, body)))
	default:
		return domain.Failed(domain.FailStatus, status, buildStatusError(status, body))
	}
}

func decodeWait(body []byte) (time.Duration, error) {
	var b drawResponse
	if err := json.Unmarshal(body, &b); err != nil {
		return 0, fmt.Errorf("decode draw body: %w", err)
	}
	if b.WaitSeconds == nil {
		return 0, errMissingWait
	}
	return secondsToDuration(*b.WaitSeconds), nil
}

// secondsToDuration converte wait_seconds (pode vir fracionário) em Duration.
// Valores negativos ou inválidos viram zero; valores acima do que cabe em
// Duration saturam no máximo, nunca em espera negativa.
func secondsToDuration(s float64) time.Duration {
	if math.IsNaN(s) || s <= 0 {
		return 0
	}
	ns := math.Ceil(s * float64(time.Second))
	if ns >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}
