package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, markers []string) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:          server.URL,
		Cookie:           "session=abc",
		ChallengeMarkers: markers,
	}, zap.NewNop())
	return client, server
}

func TestClient_Get(t *testing.T) {
	var gotCookie, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("<html><body><div id='x'>hello</div></body></html>"))
	}, nil)

	params := url.Values{}
	params.Set("page", "my_uploads")
	resp, err := client.Get(context.Background(), "/index.php", params)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "session=abc", gotCookie)
	assert.Equal(t, "page=my_uploads", gotQuery)
	assert.False(t, resp.Challenge)

	doc, err := resp.Document()
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Find("#x").Text())
}

func TestClient_ChallengeDetection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><script src="/captcha.js"></script></html>`))
	}, []string{"/captcha.js"})

	resp, err := client.Get(context.Background(), "/upload", nil)
	require.NoError(t, err)
	assert.True(t, resp.Challenge)
}

func TestClient_PostForm(t *testing.T) {
	var gotBody, gotContentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte("ok"))
	}, nil)

	form := url.Values{}
	form.Set("unfinished", "1")
	form.Set("pg", "2")
	resp, err := client.PostForm(context.Background(), "/ajax/upload.php", nil, form)
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Contains(t, gotBody, "unfinished=1")
	assert.Contains(t, gotBody, "pg=2")
}

func TestClient_PostMultipart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "release.jpg", header.Filename)
		assert.Equal(t, "model", r.FormValue("kind"))
		_, _ = w.Write([]byte("uploaded"))
	}, nil)

	resp, err := client.PostMultipart(context.Background(), "/ajax/release_upload.php", "file", "release.jpg",
		[]byte{0xFF, 0xD8, 0xFF}, map[string]string{"kind": "model"})
	require.NoError(t, err)
	assert.Equal(t, "uploaded", resp.Text)
}

func TestClient_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	server.Close()

	_, err := client.Get(context.Background(), "/index.php", nil)
	assert.Error(t, err)
}
