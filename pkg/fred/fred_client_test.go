package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeriesValues(t *testing.T) {
	t.Run("returns oldest first and drops missing values", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "UNRATE", r.URL.Query().Get("series_id"))
			require.Equal(t, "desc", r.URL.Query().Get("sort_order"))
			w.Write([]byte(`{"observations": [
				{"date": "2025-03-01", "value": "4.2"},
				{"date": "2025-02-01", "value": "."},
				{"date": "2025-01-01", "value": "4.0"}
			]}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), "test-key")
		client.BaseUrl = server.URL

		values, err := client.SeriesValues(context.Background(), "UNRATE", 3)
		require.NoError(t, err)
		require.Equal(t, []float64{4.0, 4.2}, values)
	})

	t.Run("all missing is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"observations": [{"date": "2025-03-01", "value": "."}]}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), "test-key")
		client.BaseUrl = server.URL

		_, err := client.SeriesValues(context.Background(), "UNRATE", 1)
		require.Error(t, err)
	})
}

func TestLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": [{"date": "2025-03-01", "value": "5.33"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), "test-key")
	client.BaseUrl = server.URL

	value, err := client.Latest(context.Background(), "FEDFUNDS")
	require.NoError(t, err)
	require.Equal(t, 5.33, value)
}
