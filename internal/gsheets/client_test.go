package gsheets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/shutterboard/internal/gsheets"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	const csv = "Client Name,Email\nJane,jane@x.com\n"
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	defer srv.Close()

	client := gsheets.NewClient(srv.URL+"/export?format=csv", 0, nil)
	body, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, csv, body)
	require.Equal(t, "format=csv", gotQuery)
}

func TestClient_FetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "sheet is private", http.StatusForbidden)
	}))
	defer srv.Close()

	client := gsheets.NewClient(srv.URL, time.Second, nil)
	_, err := client.Fetch(context.Background())
	require.ErrorIs(t, err, gsheets.ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "sheet is private")
}

func TestClient_FetchRedirectStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
		_, _ = w.Write([]byte("Name,Email\nGhost,g@x.com\n"))
	}))
	defer srv.Close()

	body, err := gsheets.NewClient(srv.URL, time.Second, nil).Fetch(context.Background())
	require.ErrorIs(t, err, gsheets.ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "300")
	require.Empty(t, body)
}

func TestClient_FetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := gsheets.NewClient(url, time.Second, nil)
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, gsheets.ErrUnexpectedStatus)
}
