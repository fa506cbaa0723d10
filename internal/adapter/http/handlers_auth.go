package http

import (
	"log/slog"
	"net/http"

	"github.com/Strob0t/CRMForge/internal/domain/user"
)

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.RegistrationOpen() {
		writeError(w, http.StatusForbidden, "registration is closed")
		return
	}
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}
	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		slog.DebugContext(r.Context(), "login failed", "error", err)
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.Me(r.Context())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
