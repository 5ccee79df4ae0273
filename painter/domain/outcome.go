package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSessionRejected indica que o servidor recusou a sessão (401/403).
// O controller descarta a sessão e volta a autenticar.
var ErrSessionRejected = errors.New("session rejected by server")

type OutcomeKind int

const (
	// OutcomeNextJob: o pixel já estava correto, tente outro logo em seguida.
	OutcomeNextJob OutcomeKind = iota
	// OutcomeDone: pixel pintado; Delay é o cooldown informado pelo servidor.
	OutcomeDone
	// OutcomeWait: pintura recusada por cooldown; Delay é a espera obrigatória.
	OutcomeWait
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNextJob:
		return "next_job"
	case OutcomeDone:
		return "done"
	case OutcomeWait:
		return "wait"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome é o resultado de uma tentativa de colocação. Vive só dentro da
// goroutine da conta e decide quanto tempo dormir.
type Outcome struct {
	Kind  OutcomeKind
	Delay time.Duration
}

func NextJob() Outcome { return Outcome{Kind: OutcomeNextJob} }
func Done(d time.Duration) Outcome { return Outcome{Kind: OutcomeDone, Delay: d} }
func WaitFor(d time.Duration) Outcome { return Outcome{Kind: OutcomeWait, Delay: d} }

type DrawKind int

const (
	DrawFailed DrawKind = iota
	DrawAccepted
	DrawRateLimited
)

func (k DrawKind) String() string {
	switch k {
	case DrawAccepted:
		return "accepted"
	case DrawRateLimited:
		return "rate_limited"
	default:
		return "failed"
	}
}

type FailureReason string

const (
	FailTransport FailureReason = "transport"
	FailDecode    FailureReason = "decode"
	FailStatus    FailureReason = "status"
)

// DrawResult classifica a resposta de uma requisição de pintura.
//
// Wait só tem significado para DrawAccepted e DrawRateLimited. Para DrawFailed,
// Err carrega um *DrawError.
type DrawResult struct {
	Kind DrawKind
	Wait time.Duration
	Err  error
}

func Accepted(wait time.Duration) DrawResult { return DrawResult{Kind: DrawAccepted, Wait: wait} }
func RateLimited(wait time.Duration) DrawResult { return DrawResult{Kind: DrawRateLimited, Wait: wait} }

func Failed(reason FailureReason, status int, err error) DrawResult {
	return DrawResult{Kind: DrawFailed, Err: &DrawError{Reason: reason, StatusCode: status, Err: err}}
}

// DrawError descreve por que uma pintura falhou. Para o controller todas as
// razões significam "tentativa falhou, tente depois".
type DrawError struct {
	Reason     FailureReason
	StatusCode int
	Err        error
}

func (e *DrawError) Error() string {
	msg := "draw failed (" + string(e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status=%d", e.StatusCode)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DrawError) Unwrap() error { return e.Err }

// Drawer envia exatamente uma requisição de pintura por chamada.
type Drawer interface {
	Draw(ctx context.Context, s *Session, t Target) DrawResult
}
