package ginajax

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partial-coffee/go-ajax"
)

type fixedRenderer struct {
	err error
}

func (f fixedRenderer) Render(context.Context, *http.Request, string, map[string]any) (template.HTML, error) {
	return "<html>page</html>", f.err
}

func (f fixedRenderer) RenderSections(context.Context, *http.Request, string, map[string]any) (map[string]template.HTML, error) {
	return map[string]template.HTML{"list": "<li>one</li>", "footer": "<p>f</p>"}, f.err
}

func newRouter(svc *ajax.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware(svc))
	router.GET("/items", func(c *gin.Context) {
		From(c, svc).Select("list").ScrollTo("list")
		RenderView(c, svc, "items.html", nil)
	})
	router.POST("/items", func(c *gin.Context) {
		From(c, svc).Alert("Created")
		Redirect(c, svc, "/items")
	})
	return router
}

func serve(router *gin.Engine, method string, async bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/items", nil)
	if async {
		r.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestRenderView(t *testing.T) {
	router := newRouter(ajax.NewService(&ajax.Config{Renderer: fixedRenderer{}}))

	t.Run("page", func(t *testing.T) {
		rec := serve(router, http.MethodGet, false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>page</html>", rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("async", func(t *testing.T) {
		rec := serve(router, http.MethodGet, true)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{
			"sections": map[string]any{"list": "<li>one</li>"},
			"scrollTo": "list",
		}, body)
	})
}

func TestRenderViewError(t *testing.T) {
	router := newRouter(ajax.NewService(&ajax.Config{Renderer: fixedRenderer{err: errors.New("boom")}}))

	rec := serve(router, http.MethodGet, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRedirect(t *testing.T) {
	router := newRouter(ajax.NewService(nil))

	t.Run("page", func(t *testing.T) {
		rec := serve(router, http.MethodPost, false)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/items", rec.Header().Get("Location"))
	})

	t.Run("async", func(t *testing.T) {
		rec := serve(router, http.MethodPost, true)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{"redirect": "/items", "alert": "Created"}, body)
	})
}

func TestFromWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := ajax.NewService(nil)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	a := From(c, svc)
	require.NotNil(t, a)
	assert.Same(t, a, From(c, svc))
}
