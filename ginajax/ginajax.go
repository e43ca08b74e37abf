// Package ginajax wires the ajax helper into gin handlers.
package ginajax

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partial-coffee/go-ajax"
)

// ContextKey is the gin context key the middleware stores the helper under.
const ContextKey = "ajax"

// Middleware creates a helper for every request.
func Middleware(svc *ajax.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, svc.New(c.Request))
		c.Next()
	}
}

// From returns the request's helper. Without the middleware it creates one
// from svc and stores it.
func From(c *gin.Context, svc *ajax.Service) *ajax.Ajax {
	if v, ok := c.Get(ContextKey); ok {
		if a, ok := v.(*ajax.Ajax); ok {
			return a
		}
	}

	a := svc.New(c.Request)
	c.Set(ContextKey, a)
	return a
}

// Respond writes resp through gin.
func Respond(c *gin.Context, resp ajax.Response) {
	c.Render(resp.Status(), resp)
}

// RenderView renders view with the request's helper and writes the result.
// Render errors abort the request with 500 and are attached to the context.
func RenderView(c *gin.Context, svc *ajax.Service, view string, data map[string]any) {
	resp, err := From(c, svc).RenderView(c.Request.Context(), view, data)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	Respond(c, resp)
}

// Redirect redirects with the request's helper.
func Redirect(c *gin.Context, svc *ajax.Service, location string) {
	Respond(c, From(c, svc).Redirect(location, http.StatusFound, nil, false))
}
