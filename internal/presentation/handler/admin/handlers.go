package admin

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/hilthontt/drift/internal/domain"
	"github.com/hilthontt/drift/internal/infrastructure/configs"
	"github.com/hilthontt/drift/internal/infrastructure/json"
	"github.com/hilthontt/drift/internal/infrastructure/logging"
	"github.com/hilthontt/drift/internal/presentation/handler/pages"
	"github.com/hilthontt/drift/internal/presentation/utils"
)

// SnapshotProvider reads a consistent state dump through the engine loop.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (domain.DebugSnapshot, error)
}

type Handler struct {
	config configs.AdminConfig
	pages  *pages.Handler
	engine SnapshotProvider
	logger logging.Logger
}

func NewHandler(config configs.AdminConfig, pages *pages.Handler, engine SnapshotProvider, logger logging.Logger) *Handler {
	return &Handler{
		config: config,
		pages:  pages,
		engine: engine,
		logger: logger,
	}
}

// Login checks the form credentials in constant time regardless of which
// field mismatches, then hands out a signed session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin-login.html?error=1", http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.config.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.config.Password))

	if userOK&passOK != 1 {
		h.logger.Warn(logging.Engine, logging.AdminAuth, "admin login rejected",
			map[logging.ExtraKey]any{logging.ClientIp: r.RemoteAddr})
		http.Redirect(w, r, "/admin-login.html?error=1", http.StatusSeeOther)
		return
	}

	utils.SetAdminSessionCookie(w, []byte(h.config.Secret))

	h.logger.Info(logging.Engine, logging.AdminAuth, "admin login accepted",
		map[logging.ExtraKey]any{logging.ClientIp: r.RemoteAddr})

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearAdminSessionCookie(w)
	http.Redirect(w, r, "/admin-login.html", http.StatusSeeOther)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if !utils.HasValidAdminSession(r, []byte(h.config.Secret)) {
		http.Redirect(w, r, "/admin-login.html", http.StatusSeeOther)
		return
	}

	h.pages.Admin(w, r)
}

// DebugData dumps the full engine state as JSON for the dashboard's
// polling fallback and for operators with curl.
func (h *Handler) DebugData(w http.ResponseWriter, r *http.Request) {
	if !utils.HasValidAdminSession(r, []byte(h.config.Secret)) {
		json.WriteError(w, http.StatusUnauthorized, "admin session required")
		return
	}

	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		h.logger.Error(logging.Engine, logging.AdminAuth, "snapshot failed",
			map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, snap)
}
