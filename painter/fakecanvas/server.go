package fakecanvas

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"place-bot/painter/domain"
)

const sessionCookie = "reddit_session"

type Options struct {
	Width    uint32
	Height   uint32
	Cooldown time.Duration
	// Passwords, se não nil, restringe o login aos usuários listados.
	Passwords map[string]string
	// MaxInFlight > 0 limita requisições simultâneas; o excedente recebe 503
	// depois de esperar AcquireTimeout.
	MaxInFlight    int
	AcquireTimeout time.Duration
	Log            zerolog.Logger
}

// Server implementa os três endpoints que o daemon usa.
type Server struct {
	board     *Board
	cooldowns *CooldownStore
	passwords map[string]string
	limit     func(http.Handler) http.Handler
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]session // token do cookie -> sessão

	logins      atomic.Int64
	draws       atomic.Int64
	rateLimited atomic.Int64
}

type session struct {
	user    string
	modhash string
}

func NewServer(opts Options) *Server {
	return &Server{
		board:     NewBoard(opts.Width, opts.Height),
		cooldowns: NewCooldownStore(opts.Cooldown),
		passwords: opts.Passwords,
		limit:     limitInFlight(opts.MaxInFlight, opts.AcquireTimeout),
		log:       opts.Log,
		sessions:  make(map[string]session),
	}
}

func (s *Server) Board() *Board { return s.board }
func (s *Server) Cooldowns() *CooldownStore { return s.cooldowns }
func (s *Server) Logins() int64 { return s.logins.Load() }
func (s *Server) Draws() int64 { return s.draws.Load() }
func (s *Server) RateLimitedDraws() int64 { return s.rateLimited.Load() }

// Handler devolve o mux com as rotas da API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/{username}", s.handleLogin)
	mux.HandleFunc("GET /api/place/pixel.json", s.handlePixel)
	mux.HandleFunc("POST /api/place/draw.json", s.handleDraw)
	return s.limit(mux)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	user := r.PathValue("username")
	if r.PostForm.Get("op") != "login" || r.PostForm.Get("api_type") != "json" || r.PostForm.Get("user") != user {
		http.Error(w, "bad login request", http.StatusBadRequest)
		return
	}
	if s.passwords != nil {
		if pw, ok := s.passwords[user]; !ok || pw != r.PostForm.Get("passwd") {
			// o serviço real responde 200 com a lista de erros e sem modhash
			writeJSON(w, http.StatusOK, map[string]any{
				"json": map[string]any{"errors": [][]string{{"WRONG_PASSWORD", "wrong password", "passwd"}}},
			})
			return
		}
	}

	token := uuid.NewString()
	modhash := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{user: user, modhash: modhash}
	s.mu.Unlock()
	s.logins.Add(1)

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{
		"json": map[string]any{"errors": []any{}, "data": map[string]any{"modhash": modhash}},
	})
	s.log.Debug().Str("user", user).Msg("fake login")
}

func (s *Server) handlePixel(w http.ResponseWriter, r *http.Request) {
	x, errX := parseCoord(r.URL.Query().Get("x"))
	y, errY := parseCoord(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "bad coordinates", http.StatusBadRequest)
		return
	}
	px, ok := s.board.Get(x, y)
	if !ok {
		http.Error(w, "out of bounds", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, px)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": http.StatusForbidden})
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	x, errX := parseCoord(r.PostForm.Get("x"))
	y, errY := parseCoord(r.PostForm.Get("y"))
	color, errC := strconv.ParseUint(r.PostForm.Get("color"), 10, 8)
	if errX != nil || errY != nil || errC != nil || color >= domain.PaletteSize || !s.board.Contains(x, y) {
		http.Error(w, "bad draw request", http.StatusBadRequest)
		return
	}

	allowed, wait := s.cooldowns.Take(sess.user)
	if !allowed {
		s.rateLimited.Add(1)
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"wait_seconds": wait.Seconds()})
		return
	}
	s.board.Set(x, y, uint8(color), sess.user)
	s.draws.Add(1)
	writeJSON(w, http.StatusOK, map[string]any{"wait_seconds": wait.Seconds()})
}

// lookup valida cookie + x-modhash.
func (s *Server) lookup(r *http.Request) (session, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil {
		return session{}, false
	}
	s.mu.Lock()
	sess, ok := s.sessions[ck.Value]
	s.mu.Unlock()
	if !ok || r.Header.Get("x-modhash") != sess.modhash {
		return session{}, false
	}
	return sess, true
}

// Expire derruba todas as sessões de um usuário (simula logout forçado).
func (s *Server) Expire(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, sess := range s.sessions {
		if sess.user == user {
			delete(s.sessions, tok)
		}
	}
}

func parseCoord(v string) (uint32, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	return uint32(n), err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
