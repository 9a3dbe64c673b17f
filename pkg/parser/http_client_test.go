package parser

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"
)

func TestHTTPClient_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><urlset></urlset>`))
	})
	mux.HandleFunc("/missing.xml", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/moved.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/sitemap.xml", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/sitemap.xml.gz", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(`<urlset><url><loc>https://example.com/gz</loc></url></urlset>`))
		_ = gz.Close()
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(buf.Bytes())
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewHTTPClient(HTTPClientConfig{})
	ctx := context.Background()

	resp, err := client.Fetch(ctx, ts.URL+"/sitemap.xml", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.OK() {
		t.Errorf("expected 2xx, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "<urlset>") {
		t.Errorf("unexpected body %q", resp.Body)
	}

	resp, err = client.Fetch(ctx, ts.URL+"/missing.xml", 5*time.Second)
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	if resp.OK() || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	resp, err = client.Fetch(ctx, ts.URL+"/moved.xml", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error following redirect: %v", err)
	}
	if !resp.OK() {
		t.Errorf("expected redirect to be followed, got %d", resp.StatusCode)
	}

	resp, err = client.Fetch(ctx, ts.URL+"/sitemap.xml.gz", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(resp.Body), "https://example.com/gz") {
		t.Errorf("gzip body not decompressed: %q", resp.Body)
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer ts.Close()

	client := NewHTTPClient(HTTPClientConfig{})
	if _, err := client.Fetch(context.Background(), ts.URL, 50*time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}

func TestHTTPClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(HTTPClientConfig{})
	if _, err := client.Fetch(ctx, "http://127.0.0.1:1/", time.Second); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeBody(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String(`<?xml version="1.0" encoding="ISO-8859-1"?><urlset><url><loc>https://example.com/caf` + "é" + `</loc></url></urlset>`)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded := DecodeBody([]byte(latin))
	if !strings.Contains(decoded, "https://example.com/café") {
		t.Errorf("latin-1 body not transcoded: %q", decoded)
	}

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<urlset/>")...)
	if got := DecodeBody(withBOM); got != "<urlset/>" {
		t.Errorf("BOM not stripped: %q", got)
	}

	if got := DecodeBody([]byte{'a', 0xff, 'b'}); got != "ab" {
		t.Errorf("invalid UTF-8 not dropped: %q", got)
	}
}
