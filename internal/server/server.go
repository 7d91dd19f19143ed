// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// Package server implements a local stand-in for the Sugar-AI service.
//
// Endpoints:
//   - POST /ask      - retrieval-augmented answer
//   - POST /ask-llm  - direct model answer
//   - GET  /health   - health check
//   - GET  /stats    - usage statistics
//
// Answers come from a small canned set keyed on Sugar topics, so the
// client can be developed and demonstrated without the hosted service.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultHost is the loopback-only listen address.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default port for the emulator.
	DefaultPort = 8080

	// DefaultQuotaTotal is the per-key question quota when none is set.
	DefaultQuotaTotal = 10

	// DefaultRatePerMin is the per-key request rate limit when none is set.
	DefaultRatePerMin = 30

	// MaxQuestionLength is the maximum accepted question length in bytes.
	// Questions travel in the URL query string; anything longer is a
	// malformed request, not a real question.
	MaxQuestionLength = 8000
)

// Version is the emulator version reported by /health.
var Version = "0.1.0"

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks emulator usage statistics.
type ServerStats struct {
	TotalRequests int64     `json:"total_requests"`
	RAGRequests   int64     `json:"rag_requests"`
	LLMRequests   int64     `json:"llm_requests"`
	AuthFailures  int64     `json:"auth_failures"`
	RateLimited   int64     `json:"rate_limited"`
	FaultsServed  int64     `json:"faults_served"`
	StartTime     time.Time `json:"start_time"`
	mu            sync.Mutex
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{
		StartTime: time.Now(),
	}
}

// RecordAsk records an answered question on one of the ask endpoints.
func (s *ServerStats) RecordAsk(useRAG bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.TotalRequests, 1)
	if useRAG {
		atomic.AddInt64(&s.RAGRequests, 1)
	} else {
		atomic.AddInt64(&s.LLMRequests, 1)
	}
}

// RecordAuthFailure records a rejected API key.
func (s *ServerStats) RecordAuthFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.AuthFailures, 1)
}

// RecordRateLimited records a request bounced by the rate limit or an
// exhausted quota.
func (s *ServerStats) RecordRateLimited() {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.RateLimited, 1)
}

// RecordFault records an injected failure.
func (s *ServerStats) RecordFault() {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.FaultsServed, 1)
}

// GetStats returns a copy of the current stats.
func (s *ServerStats) GetStats() ServerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ServerStats{
		TotalRequests: atomic.LoadInt64(&s.TotalRequests),
		RAGRequests:   atomic.LoadInt64(&s.RAGRequests),
		LLMRequests:   atomic.LoadInt64(&s.LLMRequests),
		AuthFailures:  atomic.LoadInt64(&s.AuthFailures),
		RateLimited:   atomic.LoadInt64(&s.RateLimited),
		FaultsServed:  atomic.LoadInt64(&s.FaultsServed),
		StartTime:     s.StartTime,
	}
}

// Uptime returns the emulator uptime duration.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// QUOTA LEDGER
// ============================================================================

// quotaLedger tracks per-key question counts so the emulator reports a
// shrinking quota the way the hosted service does. A total of zero
// turns accounting off entirely. total is fixed at construction; only
// the used map needs the lock.
type quotaLedger struct {
	mu    sync.Mutex
	total int
	used  map[string]int
}

func newQuotaLedger(total int) *quotaLedger {
	if total < 0 {
		total = 0
	}
	return &quotaLedger{
		total: total,
		used:  make(map[string]int),
	}
}

// consume spends one question for the key. It returns the remaining and
// total counts, and ok=false when the key's quota is already exhausted.
// An unmetered ledger reports total=0 and always allows.
func (q *quotaLedger) consume(key string) (remaining, total int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.total <= 0 {
		return 0, 0, true
	}

	used := q.used[key]
	if used >= q.total {
		return 0, q.total, false
	}

	q.used[key] = used + 1
	return q.total - used - 1, q.total, true
}

// limit returns the configured per-key total. Zero means unmetered.
func (q *quotaLedger) limit() int {
	return q.total
}

// ============================================================================
// FAULT INJECTION
// ============================================================================

// FaultConfig injects failures on the ask endpoints so client retry and
// error handling can be exercised against a local target.
type FaultConfig struct {
	// ServiceDown answers every ask with 503.
	ServiceDown bool

	// TimeoutFirst answers the first N asks after the faults are set
	// with 504, then recovers. Zero disables.
	TimeoutFirst int

	// Latency delays every answer, simulating model inference time.
	Latency time.Duration
}

// active reports whether any fault is configured.
func (f *FaultConfig) active() bool {
	return f.ServiceDown || f.TimeoutFirst > 0 || f.Latency > 0
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the Sugar-AI service emulator.
type Server struct {
	host   string
	port   int
	router *http.ServeMux
	server *http.Server

	stats   *ServerStats
	quota   *quotaLedger
	faults  *FaultConfig
	limiter *KeyLimiter
	auth    *KeyAuthConfig

	// askSeq numbers asks for the TimeoutFirst cadence.
	askSeq int64

	mu sync.RWMutex
}

// NewServer creates an emulator listening on host:port.
// Empty host and zero port fall back to the loopback defaults.
func NewServer(host string, port int) *Server {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		host:    host,
		port:    port,
		router:  http.NewServeMux(),
		stats:   NewServerStats(),
		quota:   newQuotaLedger(DefaultQuotaTotal),
		faults:  &FaultConfig{},
		limiter: DefaultKeyLimiter(),
		auth:    DefaultKeyAuthConfig(),
	}

	s.setupRoutes()
	return s
}

// WithQuota sets the per-key question quota. Zero disables quota
// accounting and the quota object disappears from responses.
func (s *Server) WithQuota(total int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = newQuotaLedger(total)
	return s
}

// WithRateLimit sets the per-key request rate limit.
func (s *Server) WithRateLimit(perMin int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = NewKeyLimiter(perMin)
	return s
}

// WithFaults sets the fault injection configuration. The TimeoutFirst
// counter restarts from the next ask.
func (s *Server) WithFaults(fc *FaultConfig) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fc == nil {
		fc = &FaultConfig{}
	}
	s.faults = fc
	atomic.StoreInt64(&s.askSeq, 0)
	return s
}

// WithAPIKeys restricts the accepted API keys. Without this the
// emulator accepts any non-empty key.
func (s *Server) WithAPIKeys(keys []string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.Keys = keys
	return s
}

// Host returns the listen host.
func (s *Server) Host() string {
	return s.host
}

// Port returns the listen port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the host:port the emulator listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// ============================================================================
// ROUTES
// ============================================================================

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /ask", s.handleAskRAG)
	s.router.HandleFunc("POST /ask-llm", s.handleAskLLM)

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
}

// Handler returns the full handler including the middleware chain.
// Tests and embedders can serve it with their own http.Server.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(log.Default()),
		KeyAuthMiddleware(s.auth, s.stats),
		KeyRateLimitMiddleware(s.limiter, s.stats),
	)(s.router)
}

// ============================================================================
// WIRE TYPES
// ============================================================================

// quotaInfo reports the remaining question quota for the calling key.
type quotaInfo struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

// askResponse is the reply for both ask endpoints.
type askResponse struct {
	Answer string     `json:"answer"`
	Quota  *quotaInfo `json:"quota,omitempty"`
}

// errorResponse is the service's error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the health check reply.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	QuotaTotal    int    `json:"quota_total"`
	RatePerMin    int    `json:"rate_per_min"`
	FaultsActive  bool   `json:"faults_active"`
}

// StatsResponse is the usage statistics reply.
type StatsResponse struct {
	TotalRequests int64 `json:"total_requests"`
	RAGRequests   int64 `json:"rag_requests"`
	LLMRequests   int64 `json:"llm_requests"`
	AuthFailures  int64 `json:"auth_failures"`
	RateLimited   int64 `json:"rate_limited"`
	FaultsServed  int64 `json:"faults_served"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// ============================================================================
// CANNED ANSWERS
// ============================================================================

// cannedAnswer holds one prepared reply and the keywords that select it.
type cannedAnswer struct {
	keywords []string
	text     string
}

// ragPreamble marks answers served from the retrieval endpoint so a
// developer can tell which endpoint the client hit.
const ragPreamble = "Based on the Sugar Labs documentation:\n\n"

// cannedAnswers is scanned in order; the first entry with a matching
// keyword wins. The generic activity entry stays last because nearly
// every Sugar question mentions activities.
var cannedAnswers = []cannedAnswer{
	{
		keywords: []string{"gtk"},
		text: "To create a Sugar activity with GTK4, subclass `Activity` and build your interface inside it:\n\n" +
			"```python\n" +
			"import gi\n" +
			"gi.require_version(\"Gtk\", \"4.0\")\n" +
			"from gi.repository import Gtk\n" +
			"from sugar4.activity.activity import Activity\n" +
			"\n\n" +
			"class HelloActivity(Activity):\n" +
			"    def __init__(self, handle, application=None):\n" +
			"        super().__init__(handle, application=application)\n" +
			"        label = Gtk.Label(label=\"Hello, Sugar!\")\n" +
			"        self.set_canvas(label)\n" +
			"```\n\n" +
			"Declare the activity in `activity/activity.info` with its bundle id, " +
			"then run `python3 setup.py dev` to register it with your local Sugar shell.",
	},
	{
		keywords: []string{"tuple", "list"},
		text: "Lists and tuples both hold ordered sequences, but they differ in mutability:\n\n" +
			"- **Lists** are mutable: you can append, remove, and reassign items after creation. " +
			"Write them with square brackets: `colors = [\"red\", \"green\"]`.\n" +
			"- **Tuples** are immutable: once created they cannot change, which makes them usable " +
			"as dictionary keys and slightly cheaper to iterate. " +
			"Write them with parentheses: `point = (3, 4)`.\n\n" +
			"Use a list when the collection will grow or shrink, and a tuple for fixed " +
			"records like coordinates.",
	},
	{
		keywords: []string{"button"},
		text: "Add a `Gtk.Button` to your activity's canvas and connect its `clicked` signal:\n\n" +
			"```python\n" +
			"button = Gtk.Button(label=\"Click me\")\n" +
			"button.connect(\"clicked\", self._on_clicked)\n" +
			"\n" +
			"box = Gtk.Box(orientation=Gtk.Orientation.VERTICAL)\n" +
			"box.append(button)\n" +
			"self.set_canvas(box)\n" +
			"```\n\n" +
			"The handler receives the button that fired:\n\n" +
			"```python\n" +
			"def _on_clicked(self, button):\n" +
			"    print(\"Button pressed\")\n" +
			"```\n\n" +
			"For toolbar buttons, use `ToolButton` from `sugar4.graphics.toolbutton` instead.",
	},
	{
		keywords: []string{"pygame"},
		text: "Sugar activities run Pygame through the `sugargame` wrapper, which embeds the " +
			"Pygame surface in the activity window:\n\n" +
			"```python\n" +
			"import pygame\n" +
			"import sugargame.canvas\n" +
			"from sugar4.activity.activity import Activity\n" +
			"\n\n" +
			"class PygameActivity(Activity):\n" +
			"    def __init__(self, handle):\n" +
			"        super().__init__(handle)\n" +
			"        self.game = MyGame()\n" +
			"        self._canvas = sugargame.canvas.PygameCanvas(\n" +
			"            self, main=self.game.run, modules=[pygame.display])\n" +
			"        self.set_canvas(self._canvas)\n" +
			"```\n\n" +
			"Keep your game loop cooperative: yield to GLib event processing each frame so " +
			"the Sugar toolbar stays responsive.",
	},
	{
		keywords: []string{"toolbar"},
		text: "Sugar activities use `ToolbarBox` from `sugar4.graphics.toolbarbox`:\n\n" +
			"```python\n" +
			"from sugar4.graphics.toolbarbox import ToolbarBox\n" +
			"from sugar4.activity.widgets import ActivityToolbarButton, StopButton\n" +
			"\n" +
			"toolbar_box = ToolbarBox()\n" +
			"toolbar_box.toolbar.append(ActivityToolbarButton(self))\n" +
			"toolbar_box.toolbar.append(StopButton(self))\n" +
			"self.set_toolbar_box(toolbar_box)\n" +
			"```\n\n" +
			"The activity button and stop button are the two pieces every Sugar toolbar carries.",
	},
	{
		keywords: []string{"journal", "datastore"},
		text: "The Sugar Journal stores every activity session automatically. Your activity " +
			"saves its state by implementing `write_file` and restores it in `read_file`:\n\n" +
			"```python\n" +
			"def write_file(self, file_path):\n" +
			"    with open(file_path, \"w\") as f:\n" +
			"        f.write(self.serialize_state())\n" +
			"\n" +
			"def read_file(self, file_path):\n" +
			"    with open(file_path) as f:\n" +
			"        self.restore_state(f.read())\n" +
			"```\n\n" +
			"Sugar calls these for you when the session is saved to or resumed from the Journal.",
	},
	{
		keywords: []string{"activity"},
		text: "A Sugar activity is a self-contained bundle: a directory named `MyActivity.activity` " +
			"holding your Python code, an `activity/activity.info` manifest with the bundle id and " +
			"icon, and a `setup.py` for packaging.\n\n" +
			"Start from the `Activity` base class, set a canvas widget, and add a toolbar. " +
			"`python3 setup.py dev` links the bundle into your Sugar shell for testing, and " +
			"`python3 setup.py dist_xo` builds the installable `.xo` package.",
	},
}

// Fallbacks when no keyword matches. The two endpoints answer
// differently so the calling mode stays visible during development.
const (
	fallbackAnswerRAG = "I could not find anything about that in the Sugar Labs documentation. " +
		"Try asking about Sugar activities, GTK widgets, the Journal, or Pygame."

	fallbackAnswerLLM = "I do not have a prepared answer for that question. This local service " +
		"replies from a small canned set; ask about Sugar activities, GTK, the Journal, or " +
		"Pygame to see a full answer."
)

// answerFor picks the canned answer for a question.
func answerFor(question string, useRAG bool) string {
	q := strings.ToLower(question)
	for _, c := range cannedAnswers {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				if useRAG {
					return ragPreamble + c.text
				}
				return c.text
			}
		}
	}

	if useRAG {
		return fallbackAnswerRAG
	}
	return fallbackAnswerLLM
}

// ============================================================================
// ASK HANDLERS
// ============================================================================

// handleAskRAG handles POST /ask.
func (s *Server) handleAskRAG(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, true)
}

// handleAskLLM handles POST /ask-llm.
func (s *Server) handleAskLLM(w http.ResponseWriter, r *http.Request) {
	s.handleAsk(w, r, false)
}

// handleAsk answers one question. The middleware chain has already
// authenticated the key and applied the rate limit.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, useRAG bool) {
	startTime := time.Now()

	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		writeError(w, http.StatusBadRequest, "Question must not be empty")
		return
	}
	if len(question) > MaxQuestionLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Question exceeds maximum length of %d bytes", MaxQuestionLength))
		return
	}

	// UNICODE: NFC so keyword matching sees one spelling of accented text.
	question = norm.NFC.String(question)

	s.mu.RLock()
	faults := s.faults
	quota := s.quota
	s.mu.RUnlock()

	// Faults are checked before any real work so injected failures look
	// exactly like the hosted service failing.
	if faults.Latency > 0 {
		select {
		case <-time.After(faults.Latency):
		case <-r.Context().Done():
			return
		}
	}

	if faults.ServiceDown {
		s.stats.RecordFault()
		log.Printf("FAULT_INJECTED | kind=503 path=%s", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}

	if n := faults.TimeoutFirst; n > 0 {
		if seq := atomic.AddInt64(&s.askSeq, 1); seq <= int64(n) {
			s.stats.RecordFault()
			log.Printf("FAULT_INJECTED | kind=504 path=%s seq=%d", r.URL.Path, seq)
			writeError(w, http.StatusGatewayTimeout, "Upstream model timed out")
			return
		}
	}

	key := r.Header.Get("X-API-Key")
	remaining, total, ok := quota.consume(key)
	if !ok {
		s.stats.RecordRateLimited()
		log.Printf("QUOTA_EXHAUSTED | key=%s total=%d", fingerprint(key), total)
		writeError(w, http.StatusTooManyRequests, "Question quota exhausted")
		return
	}

	answer := answerFor(question, useRAG)
	s.stats.RecordAsk(useRAG)

	resp := askResponse{Answer: answer}
	if total > 0 {
		resp.Quota = &quotaInfo{Remaining: remaining, Total: total}
	}

	log.Printf("ASK_SERVED | mode=%s key=%s answer_len=%d latency=%dms",
		modeName(useRAG), fingerprint(key), len(answer), time.Since(startTime).Milliseconds())

	writeJSON(w, http.StatusOK, resp)
}

// modeName names the endpoint mode for logging.
func modeName(useRAG bool) string {
	if useRAG {
		return "rag"
	}
	return "llm"
}

// ============================================================================
// HEALTH AND STATS HANDLERS
// ============================================================================

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	faults := s.faults
	quota := s.quota
	limiter := s.limiter
	s.mu.RUnlock()

	status := "ok"
	if faults.ServiceDown {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        status,
		Version:       Version,
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
		QuotaTotal:    quota.limit(),
		RatePerMin:    limiter.PerMinute(),
		FaultsActive:  faults.active(),
	})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.GetStats()

	writeJSON(w, http.StatusOK, StatsResponse{
		TotalRequests: stats.TotalRequests,
		RAGRequests:   stats.RAGRequests,
		LLMRequests:   stats.LLMRequests,
		AuthFailures:  stats.AuthFailures,
		RateLimited:   stats.RateLimited,
		FaultsServed:  stats.FaultsServed,
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server and blocks until it stops.
// Configure quota, rate limit, keys, and faults before calling it.
func (s *Server) Start() error {
	addr := s.Addr()
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv := s.server
	perMin := s.limiter.PerMinute()
	s.mu.Unlock()

	log.Printf("SERVER_START | addr=%s version=%s rate=%d/min", addr, Version, perMin)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}

	log.Printf("SERVER_SHUTDOWN | draining connections")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the service's JSON error envelope.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// fingerprint returns a short hash of an API key for logging.
// SECURITY: Keys never appear in logs, only their fingerprints.
func fingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}
