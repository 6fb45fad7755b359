package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsalpha/pkg/fred"

	"github.com/stretchr/testify/require"
)

func fredObservations(values ...float64) string {
	out := `{"observations": [`
	// newest first, the way fred returns a sort_order=desc query
	for i := len(values) - 1; i >= 0; i-- {
		out += fmt.Sprintf(`{"date": "2025-%02d-01", "value": "%g"}`, i+1, values[i])
		if i > 0 {
			out += ","
		}
	}
	return out + `]}`
}

func TestGetIndicators(t *testing.T) {
	cpi := make([]float64, 13)
	for i := range cpi {
		cpi[i] = 300 + float64(i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("series_id") {
		case "UNRATE":
			w.Write([]byte(fredObservations(4.1)))
		case "CPIAUCSL":
			require.Equal(t, "13", r.URL.Query().Get("limit"))
			w.Write([]byte(fredObservations(cpi...)))
		case "FEDFUNDS":
			w.Write([]byte(fredObservations(5.33)))
		default:
			t.Errorf("unexpected series %s", r.URL.Query().Get("series_id"))
		}
	}))
	defer server.Close()

	client := fred.NewClient(server.Client(), "test-key")
	client.BaseUrl = server.URL
	repo := NewMacroRepository(client)

	indicators, err := repo.GetIndicators(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4.1, indicators.Unemployment)
	require.Equal(t, 5.33, indicators.InterestRate)
	require.InDelta(t, 12.0/300.0, indicators.CpiYoY, 1e-9)
}

func TestGetIndicatorsShortCpiSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("series_id") == "CPIAUCSL" {
			w.Write([]byte(fredObservations(310, 311, 312)))
			return
		}
		w.Write([]byte(fredObservations(4.1)))
	}))
	defer server.Close()

	client := fred.NewClient(server.Client(), "test-key")
	client.BaseUrl = server.URL
	repo := NewMacroRepository(client)

	_, err := repo.GetIndicators(context.Background())
	require.ErrorContains(t, err, "13 months")
}
