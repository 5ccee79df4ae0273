package domain

import (
	"context"
	"errors"
	"strings"
)

// Credential é o par usuário/senha de uma conta, fornecido pela configuração.
type Credential struct {
	Username string
	Password string
}

// Session é o pacote de credenciais autenticadas de uma conta.
//
// Pertence a um único controller durante sua vida útil e é descartada (nunca
// reutilizada) quando uma requisição falha por motivo de autenticação.
type Session struct {
	// ID serve apenas para correlacionar logs entre re-autenticações.
	ID       string
	Username string
	// Cookies guarda os pares "nome=valor" na ordem em que o servidor os enviou.
	Cookies []string
	// Modhash é o token anti-forgery enviado no header x-modhash.
	Modhash string
}

// CookieHeader monta o valor do header Cookie a partir dos cookies da sessão.
func (s *Session) CookieHeader() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Cookies, "; ")
}

// Authenticator troca uma Credential por uma Session. Não faz retry: a
// política de repetição pertence ao chamador.
type Authenticator interface {
	Authenticate(ctx context.Context, cred Credential) (*Session, error)
}

type AuthReason string

const (
	AuthMissingCookies AuthReason = "missing_cookies"
	AuthTransport      AuthReason = "transport"
	AuthDecode         AuthReason = "decode"
	AuthStatus         AuthReason = "status"
)

// AuthError descreve uma falha de login.
type AuthError struct {
	Reason AuthReason
	// StatusCode só é preenchido quando Reason == AuthStatus.
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	b := strings.Builder{}
	b.WriteString("auth failed (")
	b.WriteString(string(e.Reason))
	b.WriteString(")")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError informa se err carrega um *AuthError em sua cadeia.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
