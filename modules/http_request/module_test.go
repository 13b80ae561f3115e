package http_request

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunHttpRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Token", r.Header.Get("Authorization"))
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	defer server.Close()

	m := &Module{Client: server.Client()}
	ctx := context.Background()

	t.Run("post with headers and body", func(t *testing.T) {
		method, body, expected := "post", `{"ok":true}`, 200
		out, err := m.OnRunHttpRequest(ctx, &Input{
			URL:            server.URL + "/echo",
			Method:         &method,
			Headers:        map[string]string{"Authorization": "Bearer x"},
			Body:           &body,
			ExpectedStatus: &expected,
		})
		require.NoError(t, err)

		code, _ := out.GetAttr("status_code").AsBigFloat().Int64()
		assert.Equal(t, int64(200), code)
		assert.Equal(t, body, out.GetAttr("body").AsString())
		headers := out.GetAttr("headers").AsValueMap()
		assert.Equal(t, "POST", headers["X-Method"].AsString())
		assert.Equal(t, "Bearer x", headers["X-Token"].AsString())
	})

	t.Run("get by default", func(t *testing.T) {
		out, err := m.OnRunHttpRequest(ctx, &Input{URL: server.URL})
		require.NoError(t, err)
		assert.Equal(t, "GET", out.GetAttr("headers").AsValueMap()["X-Method"].AsString())
	})

	t.Run("unexpected status", func(t *testing.T) {
		expected := 200
		_, err := m.OnRunHttpRequest(ctx, &Input{URL: server.URL + "/missing", ExpectedStatus: &expected})
		assert.ErrorContains(t, err, "unexpected status code 404")
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := m.OnRunHttpRequest(ctx, &Input{URL: "://nope"})
		assert.ErrorContains(t, err, "failed to create request")
	})
}
