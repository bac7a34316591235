package response_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineralhub/mineralhub/internal/validation"
	"github.com/mineralhub/mineralhub/internal/web/response"
)

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{name: "no headers"},
		{name: "html", headers: map[string]string{"Accept": "text/html"}},
		{name: "json", headers: map[string]string{"Accept": "application/json"}, want: true},
		{name: "vendor json", headers: map[string]string{"Accept": "application/vnd.api+JSON"}, want: true},
		{name: "xhr", headers: map[string]string{"X-Requested-With": "XMLHttpRequest"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				if response.WantsJSON(c) {
					return c.SendString("json")
				}

				return c.SendString("html")
			})

			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.want, string(body) == "json")
		})
	}
}

func TestInvalid(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return response.Invalid(c, validation.Errors{"key": {"The key field is required."}})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var env response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, []string{"The key field is required."}, env.Errors["key"])
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 1, response.NewMeta(0, 1, 15).LastPage)
	assert.Equal(t, 1, response.NewMeta(15, 1, 15).LastPage)
	assert.Equal(t, 2, response.NewMeta(16, 1, 15).LastPage)
}
