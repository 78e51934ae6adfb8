package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetRejectsPlainHTTP(t *testing.T) {
	_, err := Get(context.Background(), NewClient(time.Second), "http://example.com/", "")
	if err == nil {
		t.Fatal("Get() should reject non-HTTPS URLs")
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	agents := make(chan string, 1)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	resp, err := Get(context.Background(), srv.Client(), srv.URL, "playlistify-test")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()

	if got := <-agents; got != "playlistify-test" {
		t.Errorf("User-Agent = %q, want playlistify-test", got)
	}
}

func TestBodyReaderDecodesCharset(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{"Content-Type": {"text/html; charset=iso-8859-1"}},
		Body:   io.NopCloser(strings.NewReader("<title>Caf\xe9</title>")),
	}

	r, err := BodyReader(resp)
	if err != nil {
		t.Fatalf("BodyReader() error: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(data) != "<title>Café</title>" {
		t.Errorf("decoded body = %q, want UTF-8 title", string(data))
	}
}
