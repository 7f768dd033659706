package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrejs2/slovenian-weather-integration/internal/arso"
)

const bulletinFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>ARSO opazovanja</title>
    <item>
      <title>Ljubljana, 29.8.2026 14:00</title>
      <description>Temperatura: 24 °C. Temperatura rosišča: 12.4 °C. Vidnost: 25 km.</description>
    </item>
    <item>
      <title>Ljubljana, 29.8.2026 13:00</title>
      <description>Temperatura rosišča: 99 °C. Vidnost: 1 km.</description>
    </item>
  </channel>
</rss>`

func TestBulletinAdapterExtractsNewestItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "observation_LJUBL-ANA_BEZIGRAD_latest.rss")
		w.Write([]byte(bulletinFeed))
	}))
	defer srv.Close()

	a := NewBulletinAdapter(srv.Client())
	a.SetBaseURL(srv.URL)

	report, err := a.Fetch(context.Background(), "Ljubljana")
	require.NoError(t, err)

	require.Equal(t, arso.FloatOf(12.4), report.DewPoint, "older items must be ignored")
	require.Equal(t, arso.FloatOf(25), report.VisibilityKm)
}

func TestBulletinAdapterMissingValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><item><title>Ljubljana</title><description>Temperatura: 24 °C.</description></item></channel></rss>`))
	}))
	defer srv.Close()

	a := NewBulletinAdapter(srv.Client())
	a.SetBaseURL(srv.URL)

	report, err := a.Fetch(context.Background(), "Ljubljana")
	require.NoError(t, err)
	require.False(t, report.DewPoint.Valid)
	require.False(t, report.VisibilityKm.Valid)
}

func TestBulletinAdapterUnknownLocation(t *testing.T) {
	a := NewBulletinAdapter(http.DefaultClient)

	_, err := a.Fetch(context.Background(), "Pariz")
	require.Error(t, err)
	require.True(t, arso.IsKind(err, arso.KindIncomplete), "got %v", err)
}
