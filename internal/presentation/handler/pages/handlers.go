package pages

import (
	"embed"
	"net/http"
)

//go:embed web
var webFS embed.FS

// Handler serves the embedded browser pages. Pages are static; all dynamic
// state flows over the websocket.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "web/index.html")
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.render(w, "web/chat.html")
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "web/admin-login.html")
}

// Admin renders the dashboard shell. Access control happens in the admin
// handler before this runs.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "web/admin.html")
}

func (h *Handler) render(w http.ResponseWriter, name string) {
	data, err := webFS.ReadFile(name)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
