package infra

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"place-bot/painter/domain"
)

const (
	// DefaultBaseURL é o host da API do canvas. Os endpoints ficam em /api/*.
	DefaultBaseURL = "https://www.reddit.com"

	loginEndpoint = "/api/login/"
	pixelEndpoint = "/api/place/pixel.json"
	drawEndpoint  = "/api/place/draw.json"

	userAgentProduct    = "place-bot"
	userAgentVersion    = "1.0"
	defaultHTTPTimeout  = 30 * time.Second
	maxResponseBodySize = 1 << 20 // 1 MiB
)

var (
	_ domain.Authenticator = (*Client)(nil)
	_ domain.PixelReader   = (*Client)(nil)
	_ domain.Drawer        = (*Client)(nil)
)

// Client fala com a API remota do canvas. Não guarda estado de sessão: cookies
// e modhash viajam na domain.Session de cada conta, então um Client pode ser
// usado por várias goroutines.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// ClientOption altera o client durante a construção.
type ClientOption func(*Client)

// WithBaseURL troca o host da API (útil para testes e para o fakecanvas).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient instala um http.Client customizado. Não use CookieJar:
// cada conta envia os próprios cookies.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout define o teto por requisição. Uma chamada pendurada conta como
// falha comum da tentativa.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		http:      &http.Client{Timeout: defaultHTTPTimeout},
		userAgent: buildDefaultUserAgent(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultHTTPTimeout}
	}
	c.baseURL = sanitizeBaseURL(c.baseURL)
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func sanitizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// do executa a requisição e lê o corpo com limite de tamanho.
// Só retorna erro para falhas de transporte; status HTTP fica para o chamador.
func (c *Client) do(req *http.Request) (*rawResponse, error) {
	if ua := strings.TrimSpace(c.userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: raw}, nil
}

func buildDefaultUserAgent() string {
	goVer := strings.TrimPrefix(runtime.Version(), "go")
	return fmt.Sprintf("%s/%s (Go%s; %s/%s)",
		userAgentProduct, userAgentVersion, goVer, runtime.GOOS, runtime.GOARCH)
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }
