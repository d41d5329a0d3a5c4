package httputils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var resp struct {
		OK bool `json:"ok"`
	}
	err := PostJSON(context.Background(), srv.URL, "tok", map[string]string{"a": "b"}, &resp)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if !resp.OK {
		t.Error("response not decoded")
	}
}

func TestPostJSONBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	if err := PostJSON(context.Background(), srv.URL, "", nil, nil); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	var resp struct {
		Value int `json:"value"`
	}
	if err := GetJSON(context.Background(), srv.URL, "tok", &resp); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Value != 7 {
		t.Errorf("value = %d", resp.Value)
	}
}
