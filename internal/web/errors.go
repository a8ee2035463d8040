package web

import (
	"net/http"

	"github.com/go-chi/render"
)

// errResponse is the JSON error body. Clients get a human-readable detail
// string, matching the shape the frontend already consumes.
type errResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Detail string `json:"detail"`
}

// Render implements render.Renderer.
func (e *errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errInvalidRequest(err error) render.Renderer {
	return &errResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Detail:         err.Error(),
	}
}

func errNotFound() render.Renderer {
	return &errResponse{
		HTTPStatusCode: http.StatusNotFound,
		Detail:         "Trade not found",
	}
}

func errInternal(err error) render.Renderer {
	return &errResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Detail:         "Internal server error",
	}
}
