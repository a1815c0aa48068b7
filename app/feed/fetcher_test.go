package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
)

func TestFetcherRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "Test Agent" {
			t.Errorf("Expected user agent 'Test Agent', got '%s'", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "Test Agent")
	data, err := fetcher.Run(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "<rss></rss>" {
		t.Errorf("Expected body '<rss></rss>', got '%s'", data)
	}
}

func TestFetcherRunErrors(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			fetcher := NewFetcher(5*time.Second, "Test Agent")
			if _, err := fetcher.Run(context.Background(), server.URL); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestFetcherRunStatusMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "Test Agent")
	_, err := fetcher.Run(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error")
	}
	if msg := err.Error(); msg != "HTTP error: 404 Not Found" {
		t.Errorf("Expected 'HTTP error: 404 Not Found', got '%s'", msg)
	}
}

func TestFetcherRunBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<rss>" + strings.Repeat("x", 1024) + "</rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "Test Agent")
	fetcher.client.SetResponseBodyLimit(64)

	_, err := fetcher.Run(context.Background(), server.URL)
	if !errors.Is(err, resty.ErrResponseBodyTooLarge) {
		t.Errorf("Expected body too large error, got %v", err)
	}
}

func TestFetcherRunTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(50*time.Millisecond, "Test Agent")
	if _, err := fetcher.Run(context.Background(), server.URL); err == nil {
		t.Error("Expected timeout error")
	}
}
