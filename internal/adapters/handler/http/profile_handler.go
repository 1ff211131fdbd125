package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
	"github.com/vncsmyrnk/poll-profile/internal/core/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageFactory builds an unmounted page for a profile route segment. The
// outbox receives the page's notices and clipboard writes.
type PageFactory func(segment string, outbox *Outbox) (ports.ProfilePage, error)

type ProfileHandler struct {
	newPage  PageFactory
	sessions *SessionStore
	tmpl     *template.Template
	log      logrus.FieldLogger
}

func NewProfileHandler(newPage PageFactory, sessions *SessionStore, log logrus.FieldLogger) (*ProfileHandler, error) {
	tmpl, err := template.New("profile").Funcs(template.FuncMap{
		"percent": percent,
		"isVote":  isVote,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &ProfileHandler{
		newPage:  newPage,
		sessions: sessions,
		tmpl:     tmpl,
		log:      log,
	}, nil
}

type voteRequest struct {
	OptionIndex *int `json:"option_index"`
}

type actionResponse struct {
	View      domain.ProfileView `json:"view"`
	Notices   []domain.Notice    `json:"notices"`
	Clipboard string             `json:"clipboard,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type pageData struct {
	View    domain.ProfileView
	Viewer  domain.Viewer
	Notices []domain.Notice
}

// Mount starts a fresh page for the profile, discarding any previous state
// the session had for it, and renders it.
func (h *ProfileHandler) Mount(w http.ResponseWriter, r *http.Request) {
	segment := profileSegment(r)
	username, err := services.ResolveUsername(segment)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	ps, err := h.mount(w, r, segment, username)
	if err != nil {
		h.log.WithError(err).Error("failed to mount page")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "page", ps)
}

// View renders the current page state without refetching it.
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "json" {
		notices, clipboard := ps.outbox.Drain(r.Context())
		writeJSON(w, http.StatusOK, actionResponse{
			View:      ps.page.View(ViewerFrom(r.Context())),
			Notices:   notices,
			Clipboard: clipboard,
		})
		return
	}
	h.render(w, r, "content", ps)
}

func (h *ProfileHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionIndex == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	pollID := domain.ID(chi.URLParam(r, "pollID"))
	err := ps.page.Vote(r.Context(), ViewerFrom(r.Context()), pollID, *req.OptionIndex)
	h.respond(w, r, ps, err)
}

func (h *ProfileHandler) Like(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	pollID := domain.ID(chi.URLParam(r, "pollID"))
	err := ps.page.Like(r.Context(), ViewerFrom(r.Context()), pollID)
	h.respond(w, r, ps, err)
}

func (h *ProfileHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	pollID := domain.ID(chi.URLParam(r, "pollID"))
	err := ps.page.DeletePoll(r.Context(), ViewerFrom(r.Context()), pollID)
	h.respond(w, r, ps, err)
}

func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	err := ps.page.ToggleFollow(r.Context(), ViewerFrom(r.Context()))
	h.respond(w, r, ps, err)
}

// Share shares the profile itself. The server has no native share, so the
// link always comes back as clipboard text for the browser to copy.
func (h *ProfileHandler) Share(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.session(w, r)
	if !ok {
		return
	}

	username := ps.page.Username()
	err := ps.page.Share(r.Context(), username, username)
	h.respond(w, r, ps, err)
}

// session returns the page mounted for this browser session, mounting one
// when there is none yet.
func (h *ProfileHandler) session(w http.ResponseWriter, r *http.Request) (*pageSession, bool) {
	segment := profileSegment(r)
	username, err := services.ResolveUsername(segment)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return nil, false
	}

	id, ok := sessionID(r)
	if ok {
		if ps, found := h.sessions.Get(id, username); found {
			return ps, true
		}
	}

	ps, err := h.mount(w, r, segment, username)
	if err != nil {
		h.log.WithError(err).Error("failed to mount page")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return nil, false
	}
	return ps, true
}

func (h *ProfileHandler) mount(w http.ResponseWriter, r *http.Request, segment, username string) (*pageSession, error) {
	if removed := h.sessions.Sweep(); removed > 0 {
		h.log.WithField("removed", removed).Debug("evicted idle pages")
	}

	id, ok := sessionID(r)
	if !ok {
		id = uuid.New()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id.String(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	outbox := NewOutbox()
	page, err := h.newPage(segment, outbox)
	if err != nil {
		return nil, err
	}
	// Load failures are logged by the page and render as an empty profile.
	_ = page.Mount(r.Context())

	return h.sessions.Put(id, username, page, outbox), nil
}

// profileSegment returns the profile segment of the request path still
// escaped, so ResolveUsername unescapes it exactly once. chi.URLParam hands
// back the decoded path whenever the URL has no distinct raw form.
func profileSegment(r *http.Request) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
	return segment
}

func sessionID(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProfileHandler) respond(w http.ResponseWriter, r *http.Request, ps *pageSession, err error) {
	notices, clipboard := ps.outbox.Drain(r.Context())
	resp := actionResponse{
		View:      ps.page.View(ViewerFrom(r.Context())),
		Notices:   notices,
		Clipboard: clipboard,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	var signIn *domain.SignInRequiredError
	var serviceErr *domain.ServiceError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &signIn):
		return http.StatusUnauthorized
	case errors.As(err, &serviceErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrPollBusy), errors.Is(err, domain.ErrFollowBusy), errors.Is(err, domain.ErrProfileNotLoaded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSelfFollow):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, name string, ps *pageSession) {
	notices, _ := ps.outbox.Drain(r.Context())
	viewer := ViewerFrom(r.Context())
	data := pageData{
		View:    ps.page.View(viewer),
		Viewer:  viewer,
		Notices: notices,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.WithError(err).Error("failed to render profile page")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func percent(clicks, total int64) int64 {
	if total == 0 {
		return 0
	}
	return clicks * 100 / total
}

func isVote(voteIndex *int, i int) bool {
	return voteIndex != nil && *voteIndex == i
}
