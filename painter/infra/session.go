package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"place-bot/painter/domain"
)

type loginResponse struct {
	JSON struct {
		Data struct {
			Modhash string `json:"modhash"`
		} `json:"data"`
	} `json:"json"`
}

var errEmptyModhash = errors.New("login response has no modhash")

// Authenticate faz o login de uma conta e devolve uma sessão nova.
//
// Cookies vêm dos headers Set-Cookie e o modhash de json.data.modhash.
// Não há retry aqui; quem repete é o controller.
func (c *Client) Authenticate(ctx context.Context, cred domain.Credential) (*domain.Session, error) {
	form := url.Values{
		"op":       {"login"},
		"user":     {cred.Username},
		"passwd":   {cred.Password},
		"api_type": {"json"},
	}
	endpoint := c.baseURL + loginEndpoint + url.PathEscape(cred.Username)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &domain.AuthError{Reason: domain.AuthTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		return nil, &domain.AuthError{Reason: domain.AuthTransport, Err: err}
	}
	if !isSuccess(resp.status) {
		return nil, &domain.AuthError{
			Reason:     domain.AuthStatus,
			StatusCode: resp.status,
			Err:        buildStatusError(resp.status, resp.body),
		}
	}

	var body loginResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, &domain.AuthError{Reason: domain.AuthDecode, Err: fmt.Errorf("decode login body: %w", err)}
	}
	modhash := strings.TrimSpace(body.JSON.Data.Modhash)
	if modhash == "" {
		return nil, &domain.AuthError{Reason: domain.AuthDecode, Err: errEmptyModhash}
	}

	cookies := extractCookies(resp.header)
	if len(cookies) == 0 {
		return nil, &domain.AuthError{Reason: domain.AuthMissingCookies, Err: errors.New("login response carries no cookies")}
	}

	return &domain.Session{
		ID:       uuid.NewString(),
		Username: cred.Username,
		Cookies:  cookies,
		Modhash:  modhash,
	}, nil
}

// extractCookies devolve "nome=valor" de cada Set-Cookie, na ordem recebida.
func extractCookies(h http.Header) []string {
	parsed := (&http.Response{Header: h}).Cookies()
	out := make([]string, 0, len(parsed))
	for _, ck := range parsed {
		if ck.Name == "" {
			continue
		}
		out = append(out, ck.Name+"="+ck.Value)
	}
	return out
}
