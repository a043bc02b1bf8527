package api

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/services"
)

// Notice content is rendered in customer browsers, so every write path has
// to pass through the HTML sanitizer, partial updates included.
func TestNoticeBodiesAreSanitized(t *testing.T) {
	app := rest.NewRestApp(rest.RestAppOptions{Name: "api-test"})
	group := app.Group("")

	var createBody *services.NoticeInput
	app.RegisterEndpoint(&rest.Endpoint{
		Name:       "create notice capture",
		Method:     rest.MethodPOST,
		Path:       "/notices",
		Public:     true,
		BodyParams: func() any { return &services.NoticeInput{} },
		Handler: func(ctx *rest.EndpointContext) error {
			createBody = ctx.ParsedBody.(*services.NoticeInput)
			return ctx.NoContent()
		},
	}, group)

	var patchBody *services.NoticePatch
	app.RegisterEndpoint(&rest.Endpoint{
		Name:       "patch notice capture",
		Method:     rest.MethodPATCH,
		Path:       "/notices/:id",
		Public:     true,
		BodyParams: func() any { return &services.NoticePatch{} },
		Handler: func(ctx *rest.EndpointContext) error {
			patchBody = ctx.ParsedBody.(*services.NoticePatch)
			return ctx.NoContent()
		},
	}, group)

	payload := `<p>Planned maintenance</p><script>alert('xss')</script>`

	t.Run("create strips scripts", func(t *testing.T) {
		body := []byte(`{"title":"Maintenance","content":"` + payload + `","startDate":"2026-09-01T00:00:00Z","endDate":"2026-09-02T00:00:00Z","isActive":true}`)

		req := httptest.NewRequest("POST", "/notices", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.EchoApp.ServeHTTP(rec, req)

		require.NotNil(t, createBody)
		assert.NotContains(t, createBody.Content, "<script>")
		assert.Contains(t, createBody.Content, "<p>Planned maintenance</p>")
	})

	t.Run("partial update strips scripts the same way", func(t *testing.T) {
		body := []byte(`{"content":"` + payload + `"}`)

		req := httptest.NewRequest("PATCH", "/notices/n1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.EchoApp.ServeHTTP(rec, req)

		require.NotNil(t, patchBody)
		require.NotNil(t, patchBody.Content)
		assert.NotContains(t, *patchBody.Content, "<script>")
		assert.Contains(t, *patchBody.Content, "<p>Planned maintenance</p>")
	})

	t.Run("patch without content leaves the field nil", func(t *testing.T) {
		patchBody = nil
		req := httptest.NewRequest("PATCH", "/notices/n1", bytes.NewReader([]byte(`{"isActive":false}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.EchoApp.ServeHTTP(rec, req)

		require.NotNil(t, patchBody)
		assert.Nil(t, patchBody.Content)
	})
}
