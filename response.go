package ajax

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin/render"
)

// Response is what the helper hands back to the handler. It satisfies gin's
// render.Render, so gin handlers can pass it to c.Render directly.
type Response interface {
	render.Render

	// Status is the HTTP status code the response should be written with.
	Status() int
}

type (
	// JSONResponse carries the envelope for asynchronous requests.
	JSONResponse struct {
		Envelope Envelope
	}

	// ViewResponse is a fully rendered page.
	ViewResponse struct {
		Code int
		HTML template.HTML
	}

	// RedirectResponse is a plain HTTP redirect for non asynchronous requests.
	RedirectResponse struct {
		Code     int
		Location string
		Request  *http.Request
		Header   http.Header
	}
)

var htmlContentType = "text/html; charset=utf-8"

func (r *JSONResponse) Status() int {
	return http.StatusOK
}

func (r *JSONResponse) Render(w http.ResponseWriter) error {
	return render.JSON{Data: r.Envelope}.Render(w)
}

func (r *JSONResponse) WriteContentType(w http.ResponseWriter) {
	render.JSON{}.WriteContentType(w)
}

func (r *ViewResponse) Status() int {
	if r.Code == 0 {
		return http.StatusOK
	}
	return r.Code
}

func (r *ViewResponse) Render(w http.ResponseWriter) error {
	return render.Data{ContentType: htmlContentType, Data: []byte(r.HTML)}.Render(w)
}

func (r *ViewResponse) WriteContentType(w http.ResponseWriter) {
	render.Data{ContentType: htmlContentType}.WriteContentType(w)
}

func (r *RedirectResponse) Status() int {
	return r.Code
}

// Render sets the extra headers and lets http.Redirect write the status line.
func (r *RedirectResponse) Render(w http.ResponseWriter) error {
	for k, values := range r.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}

	return render.Redirect{Code: r.Code, Request: r.Request, Location: r.Location}.Render(w)
}

func (r *RedirectResponse) WriteContentType(http.ResponseWriter) {}

// Write writes resp to a plain http.ResponseWriter.
func Write(w http.ResponseWriter, resp Response) error {
	if _, ok := resp.(*RedirectResponse); !ok {
		resp.WriteContentType(w)
		w.WriteHeader(resp.Status())
	}

	return resp.Render(w)
}
