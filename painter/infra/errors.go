package infra

import (
	"encoding/json"
	"strconv"
	"strings"
)

// StatusError captura respostas fora de 2xx. O corpo pode ser JSON ou texto.
type StatusError struct {
	StatusCode int
	Message    string
	RawBody    []byte
}

func (e *StatusError) Error() string {
	b := strings.Builder{}
	b.WriteString("unexpected status ")
	b.WriteString(strconv.Itoa(e.StatusCode))
	if m := strings.TrimSpace(e.Message); m != "" {
		b.WriteString(": ")
		b.WriteString(m)
	}
	return b.String()
}

func buildStatusError(status int, body []byte) *StatusError {
	trimmed := strings.TrimSpace(string(body))
	se := &StatusError{StatusCode: status, RawBody: body, Message: truncate(trimmed, 200)}

	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal(body, &obj); err == nil {
			if v, ok := obj["message"].(string); ok && v != "" {
				se.Message = v
			} else if v, ok := obj["error"].(string); ok && v != "" {
				se.Message = v
			}
		}
	}
	return se
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
