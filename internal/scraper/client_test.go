package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Fetch(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", ct)
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "usms-records") {
			t.Errorf("User-Agent = %q, should contain 'usms-records'", ua)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		gotForm = map[string]string{
			"Year":     r.PostForm.Get("Year"),
			"CourseID": r.PostForm.Get("CourseID"),
			"LMSCID":   r.PostForm.Get("LMSCID"),
			"Club":     r.PostForm.Get("Club"),
		}
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, 0)
	body, err := c.Fetch(context.Background(), Query{
		Team:   "COLM",
		LMSC:   "55",
		Year:   2025,
		Course: "SCY",
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if body != samplePage {
		t.Error("Fetch() body does not match server response")
	}

	want := map[string]string{
		"Year":     "2025",
		"CourseID": "1",
		"LMSCID":   "55",
		"Club":     "COLM",
	}
	for field, wantValue := range want {
		if gotForm[field] != wantValue {
			t.Errorf("form field %s = %q, want %q", field, gotForm[field], wantValue)
		}
	}
}

func TestClient_Fetch_CourseIDs(t *testing.T) {
	tests := []struct {
		course string
		wantID string
	}{
		{"SCY", "1"},
		{"SCM", "2"},
		{"LCM", "3"},
		{"scy", "1"},
		{" lcm ", "3"},
	}

	for _, tt := range tests {
		t.Run(tt.course, func(t *testing.T) {
			var gotID string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				gotID = r.PostForm.Get("CourseID")
				w.Write([]byte("<pre></pre>"))
			}))
			defer server.Close()

			c := NewClient(server.URL, 5*time.Second, 0)
			if _, err := c.Fetch(context.Background(), Query{Course: tt.course, Year: 2025}); err != nil {
				t.Fatalf("Fetch() error: %v", err)
			}
			if gotID != tt.wantID {
				t.Errorf("CourseID = %q, want %q", gotID, tt.wantID)
			}
		})
	}
}

func TestClient_Fetch_UnknownCourse(t *testing.T) {
	c := NewClient("http://localhost:0", time.Second, 0)
	_, err := c.Fetch(context.Background(), Query{Course: "open water", Year: 2025})
	if err == nil {
		t.Fatal("Fetch() with unknown course should fail")
	}
	if !strings.Contains(err.Error(), "unknown course") {
		t.Errorf("error = %v, should name the unknown course", err)
	}
}

func TestClient_Fetch_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, 3)
	body, err := c.Fetch(context.Background(), Query{Course: "SCY", Year: 2025})
	if err != nil {
		t.Fatalf("Fetch() error after retry: %v", err)
	}
	if body != samplePage {
		t.Error("Fetch() body does not match server response")
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestClient_Fetch_NoRetryOnClientError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, 3)
	_, err := c.Fetch(context.Background(), Query{Course: "SCY", Year: 2025})
	if err == nil {
		t.Fatal("Fetch() should fail on 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, should carry the status code", err)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (no retries on 4xx)", calls)
	}
}

func TestClient_Fetch_RetriesExhausted(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second, 1)
	_, err := c.Fetch(context.Background(), Query{Course: "SCY", Year: 2025})
	if err == nil {
		t.Fatal("Fetch() should fail once retries are exhausted")
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2 (initial try plus one retry)", calls)
	}
}

func TestClient_Close(t *testing.T) {
	c := NewClient("http://localhost:0", time.Second, 0)
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
