package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewGatewayValidation(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"vazio", "", true},
		{"sem protocolo", "api.example.com/prod", true},
		{"https", "https://api.example.com/prod", false},
		{"barra final", "http://localhost:8080/", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGateway(GatewayConfig{BaseURL: tc.base})
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected err=%v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGatewayPut(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   string
		gotHeader http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotHeader = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL + "/prod/"})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	headers := http.Header{}
	headers.Set("x-api-key", "secret")
	headers.Set("Content-Type", "image/png")
	headers.Set("x-amz-meta-customLabels", "")

	resp, err := gw.Put(context.Background(), "uploads/1700000000000_a%20b.png", []byte("png"), headers)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != `{}` {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("expected PUT got %s", gotMethod)
	}
	if gotPath != "/prod/photos/uploads%2F1700000000000_a%2520b.png" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody != "png" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if gotHeader.Get("x-api-key") != "secret" || gotHeader.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected headers %v", gotHeader)
	}
	if _, ok := gotHeader["X-Amz-Meta-Customlabels"]; !ok {
		t.Fatalf("labels header should be sent even when empty")
	}
}

func TestGatewayGetReturnsAnyStatus(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	resp, err := gw.Get(context.Background(), "dog & cat", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Status != http.StatusInternalServerError || string(resp.Body) != "boom" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gotQuery != "dog & cat" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	if _, err := gw.Get(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestGatewayPutRequiresKey(t *testing.T) {
	gw, err := NewGateway(GatewayConfig{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	if _, err := gw.Put(context.Background(), "  ", nil, nil); err == nil || !strings.Contains(err.Error(), "chave") {
		t.Fatalf("expected key error got %v", err)
	}
}

func TestGatewayGetLargeSearchResponse(t *testing.T) {
	type item struct {
		URL    string   `json:"url"`
		Labels []string `json:"labels"`
	}
	results := make([]item, 0, 1500)
	for i := 0; i < 1500; i++ {
		results = append(results, item{
			URL:    fmt.Sprintf("https://bucket.s3.amazonaws.com/uploads/%d_photo.png?X-Amz-Signature=%s", i, strings.Repeat("a", 700)),
			Labels: []string{"beach", "sunset"},
		})
	}
	payload, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(payload) <= 1<<20 {
		t.Fatalf("payload should exceed 1 MiB, got %d", len(payload))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	resp, err := gw.Get(context.Background(), "beach", nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(resp.Body) != len(payload) || !json.Valid(resp.Body) {
		t.Fatalf("body should arrive whole: got %d of %d bytes", len(resp.Body), len(payload))
	}
}

func TestGatewayResponseOverLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxPutResponseBytes+1)))
	}))
	defer srv.Close()

	gw, err := NewGateway(GatewayConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}

	resp, err := gw.Put(context.Background(), "uploads/1_a.png", []byte("x"), nil)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("expected ErrResponseTooLarge got resp=%v err=%v", resp, err)
	}

	exact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxPutResponseBytes)))
	}))
	defer exact.Close()

	gw, err = NewGateway(GatewayConfig{BaseURL: exact.URL})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	resp, err = gw.Put(context.Background(), "uploads/1_a.png", []byte("x"), nil)
	if err != nil || len(resp.Body) != maxPutResponseBytes {
		t.Fatalf("body at the limit should be accepted: err=%v", err)
	}
}
