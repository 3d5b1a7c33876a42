package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/waitline/waitline-manager/internal/entity"
	gerr "github.com/waitline/waitline-manager/internal/errors"
)

// errors

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorizedError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFoundError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrConflictError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

func ErrTooManyRequests(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     "Too many requests.",
		ErrorText:      err.Error(),
	}
}

func ErrBadGateway(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadGateway,
		StatusText:     "Upstream error.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     http.StatusText(http.StatusInternalServerError),
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

// renderError maps service errors onto http responses.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gerr.ErrValidation):
		render.Render(w, r, ErrInvalidRequest(err))
	case errors.Is(err, gerr.ErrNotFound):
		render.Render(w, r, ErrNotFoundError(err))
	case errors.Is(err, gerr.ErrUnauthorized):
		render.Render(w, r, ErrUnauthorizedError(err))
	case errors.Is(err, gerr.ErrConflict):
		render.Render(w, r, ErrConflictError(err))
	case errors.Is(err, gerr.ErrRateLimited):
		render.Render(w, r, ErrTooManyRequests(err))
	case errors.Is(err, gerr.ErrUpstream):
		render.Render(w, r, ErrBadGateway(err))
	default:
		render.Render(w, r, ErrInternalServerError(err))
	}
}

// auth

type authResponse struct {
	AccessToken string `json:"access_token"`
}

func newAuthResponse(token string) *authResponse {
	return &authResponse{AccessToken: token}
}

func (rd *authResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type authURLResponse struct {
	AuthURL string `json:"authUrl"`
}

func (rd *authURLResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type successResponse struct {
	Success bool `json:"success"`
}

func newSuccessResponse() *successResponse {
	return &successResponse{Success: true}
}

func (rd *successResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// waitlist

type createResponse struct {
	ID int `json:"id"`
}

func (rd *createResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}

type waitlistResponse struct {
	*entity.Waitlist
}

func newWaitlistResponse(w *entity.Waitlist) *waitlistResponse {
	return &waitlistResponse{Waitlist: w}
}

func (rd *waitlistResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newWaitlistListResponse(ws []entity.Waitlist) []render.Renderer {
	list := []render.Renderer{}
	for i := range ws {
		list = append(list, newWaitlistResponse(&ws[i]))
	}
	return list
}

type formConfigResponse struct {
	*entity.FormConfig
}

func (rd *formConfigResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// entries

type joinResponse struct {
	*entity.JoinResult
}

func (rd *joinResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)
	return nil
}

type entryResponse struct {
	*entity.Entry
}

func newEntryResponse(e *entity.Entry) *entryResponse {
	return &entryResponse{Entry: e}
}

func (rd *entryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newEntryListResponse(entries []entity.Entry) []render.Renderer {
	list := []render.Renderer{}
	for i := range entries {
		list = append(list, newEntryResponse(&entries[i]))
	}
	return list
}

type analyticsResponse struct {
	*entity.Analytics
}

func (rd *analyticsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
