//go:build e2e

package gladiator_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	c := setupContainer(t, false)

	live, err := c.Client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := c.Client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}

func TestMetricsAndSwaggerAreServed(t *testing.T) {
	c := setupContainer(t, false)

	for _, path := range []string{"/metrics", "/swagger/doc.json"} {
		resp, err := http.Get(c.BaseURL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.NotEmpty(t, body, path)
	}
}
