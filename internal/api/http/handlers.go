package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/waitline/waitline-manager/internal/apisrv/auth"
	"github.com/waitline/waitline-manager/internal/apisrv/owner"
	"github.com/waitline/waitline-manager/internal/apisrv/public"
	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

type handlers struct {
	auth   *auth.Server
	owner  *owner.Server
	public *public.Server
}

func (h *handlers) landing(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "waitline manager")
}

// auth

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentialsRequest) Bind(r *http.Request) error {
	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	data := &credentialsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.auth.Signup(r.Context(), data.Email, data.Password); err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newSuccessResponse())
}

func (h *handlers) signin(w http.ResponseWriter, r *http.Request) {
	data := &credentialsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	token, err := h.auth.Signin(r.Context(), data.Email, data.Password)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newAuthResponse(token))
}

func (h *handlers) signinGoogle(w http.ResponseWriter, r *http.Request) {
	url, err := h.auth.GoogleAuthURL(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, &authURLResponse{AuthURL: url})
}

func (h *handlers) callback(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Callback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newAuthResponse(token))
}

type signoutRequest struct {
	AccessToken string `json:"access_token"`
}

func (s *signoutRequest) Bind(r *http.Request) error {
	return nil
}

func (h *handlers) signout(w http.ResponseWriter, r *http.Request) {
	data := &signoutRequest{}
	// the body is optional, an empty token still clears the client session
	_ = render.Bind(r, data)

	if err := h.auth.Signout(r.Context(), data.AccessToken); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't revoke provider session",
			slog.String("err", err.Error()),
		)
	}
	render.Render(w, r, newSuccessResponse())
}

// public

type joinRequest struct {
	entity.EntryInsert
}

func (j *joinRequest) Bind(r *http.Request) error {
	if j.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	data := &joinRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	res, err := h.public.Join(r.Context(), chi.URLParam(r, "slug"), &data.EntryInsert, clientIP(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, &joinResponse{JoinResult: res})
}

func (h *handlers) formConfig(w http.ResponseWriter, r *http.Request) {
	fc, err := h.public.FormConfig(r.Context(), chi.URLParam(r, "formKey"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, &formConfigResponse{FormConfig: fc})
}

// owner

type createWaitlistRequest struct {
	entity.WaitlistInsert
	Description *string `json:"description"`
}

func (c *createWaitlistRequest) Bind(r *http.Request) error {
	if c.Description == nil {
		return fmt.Errorf("description is required")
	}
	c.WaitlistInsert.Description = *c.Description
	return nil
}

func (h *handlers) createWaitlist(w http.ResponseWriter, r *http.Request) {
	data := &createWaitlistRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	id, err := h.owner.CreateWaitlist(r.Context(), caller, &data.WaitlistInsert)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, &createResponse{ID: id})
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	ws, err := h.owner.Dashboard(r.Context(), caller)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := render.RenderList(w, r, newWaitlistListResponse(ws)); err != nil {
		render.Render(w, r, ErrRender(err))
	}
}

func (h *handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	wl, err := h.owner.GetSettings(r.Context(), caller, id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newWaitlistResponse(wl))
}

type basicSettingsRequest struct {
	entity.BasicSettingsPatch
}

func (b *basicSettingsRequest) Bind(r *http.Request) error {
	return nil
}

func (h *handlers) updateBasicSettings(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data := &basicSettingsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	if err := h.owner.UpdateBasicSettings(r.Context(), caller, id, data.BasicSettingsPatch); err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newSuccessResponse())
}

type thankYouPageRequest struct {
	entity.ThankYouPagePatch
}

func (t *thankYouPageRequest) Bind(r *http.Request) error {
	return nil
}

func (h *handlers) updateThankYouPage(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data := &thankYouPageRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	if err := h.owner.UpdateThankYouPage(r.Context(), caller, id, data.ThankYouPagePatch); err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newSuccessResponse())
}

type submissionSettingsRequest struct {
	entity.SubmissionSettingsPatch
}

func (s *submissionSettingsRequest) Bind(r *http.Request) error {
	return nil
}

func (h *handlers) updateSubmissionSettings(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data := &submissionSettingsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	if err := h.owner.UpdateSubmissionSettings(r.Context(), caller, id, data.SubmissionSettingsPatch); err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newSuccessResponse())
}

type publishRequest struct {
	Published *bool `json:"published"`
}

func (p *publishRequest) Bind(r *http.Request) error {
	if p.Published == nil {
		return fmt.Errorf("published is required")
	}
	return nil
}

func (h *handlers) setPublished(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	data := &publishRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	if err := h.owner.SetPublished(r.Context(), caller, id, *data.Published); err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, newSuccessResponse())
}

func (h *handlers) analytics(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	a, err := h.owner.Analytics(r.Context(), caller, id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, &analyticsResponse{Analytics: a})
}

func (h *handlers) submissions(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	entries, err := h.owner.Submissions(r.Context(), caller, id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := render.RenderList(w, r, newEntryListResponse(entries)); err != nil {
		render.Render(w, r, ErrRender(err))
	}
}

func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := waitlistIDParam(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	caller, _ := callerFromContext(r.Context())
	entries, err := h.owner.Leaderboard(r.Context(), caller, id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if err := render.RenderList(w, r, newEntryListResponse(entries)); err != nil {
		render.Render(w, r, ErrRender(err))
	}
}

func waitlistIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad waitlist id: %w", gerr.ErrValidation)
	}
	return id, nil
}

// clientIP trusts middleware.RealIP to have rewritten RemoteAddr and only
// strips the port when one is still attached.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
