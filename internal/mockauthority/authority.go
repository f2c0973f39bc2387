package mockauthority

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/telemetry"
)

// Routes served by the mock.
const (
	PathCheck    = "/api/access"
	PathRedirect = "/legacy/access"
	PathHealth   = "/healthz"
)

// DefaultToken is the shared secret the mock accepts unless told otherwise.
const DefaultToken = "RSP505"

// Denial reasons.
const (
	ReasonBadToken    = "bad_token"
	ReasonUnknownCard = "unknown_card"
)

type response struct {
	Status string `json:"status"`
	UID    string `json:"uid,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Authority holds the sessions.
type Authority struct {
	token string

	mu       sync.Mutex
	allowed  map[string]struct{}
	sessions map[string]bool
	requests int
}

// New creates an Authority accepting token. With no allowed cards every card
// is accepted.
func New(token string, allowed ...string) *Authority {
	a := &Authority{
		token:    token,
		sessions: make(map[string]bool),
	}

	if len(allowed) > 0 {
		a.allowed = make(map[string]struct{}, len(allowed))
		for _, uid := range allowed {
			a.allowed[strings.ToUpper(uid)] = struct{}{}
		}
	}

	return a
}

// Requests returns how many check requests were served.
func (a *Authority) Requests() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.requests
}

// InSession reports whether uid has a running session.
func (a *Authority) InSession(uid string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.sessions[strings.ToUpper(uid)]
}

// Handler returns the HTTP routes.
func (a *Authority) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(telemetry.Middleware("authority-mock"))

	r.Get(PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, response{Status: "ok"})
	})
	r.Get(PathCheck, a.check)
	r.Get(PathRedirect, func(w http.ResponseWriter, r *http.Request) {
		target := PathCheck
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusFound)
	})

	return r
}

func (a *Authority) check(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("mode") != "check_and_toggle" {
		writeJSON(w, http.StatusBadRequest, response{Status: "error", Reason: "unsupported_mode"})

		return
	}

	uid := strings.ToUpper(query.Get("uid"))

	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++

	if query.Get("token") != a.token {
		writeJSON(w, http.StatusOK, response{Status: "denied", UID: uid, Reason: ReasonBadToken})

		return
	}

	if !a.known(uid) {
		writeJSON(w, http.StatusOK, response{Status: "denied", UID: uid, Reason: ReasonUnknownCard})

		return
	}

	status := access.MarkerSessionStarted
	if a.sessions[uid] {
		status = access.MarkerSessionEnded
	}

	a.sessions[uid] = !a.sessions[uid]

	writeJSON(w, http.StatusOK, response{Status: status, UID: uid})
}

func (a *Authority) known(uid string) bool {
	if uid == "" {
		return false
	}

	if a.allowed == nil {
		return true
	}

	_, ok := a.allowed[uid]

	return ok
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
