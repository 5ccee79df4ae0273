package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"place-bot/painter/domain"
)

// ReadPixel consulta o valor atual de uma coordenada do canvas.
//
// Best-effort: qualquer falha volta como erro e aborta só a tentativa corrente.
func (c *Client) ReadPixel(ctx context.Context, x, y uint32) (domain.Pixel, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatUint(uint64(x), 10))
	q.Set("y", strconv.FormatUint(uint64(y), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pixelEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return domain.Pixel{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return domain.Pixel{}, err
	}
	if !isSuccess(resp.status) {
		return domain.Pixel{}, buildStatusError(resp.status, resp.body)
	}

	var px domain.Pixel
	if err := json.Unmarshal(resp.body, &px); err != nil {
		return domain.Pixel{}, fmt.Errorf("decode pixel body: %w", err)
	}
	return px, nil
}
