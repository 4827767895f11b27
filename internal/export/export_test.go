// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"HTML", FormatHTML, false},
		{" pdf ", FormatPDF, false},
		{"docx", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("s1", FormatPDF, false); got != "trip_s1_last.pdf" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("s1", FormatMarkdown, true); got != "trip_s1_all_responses.md" {
		t.Errorf("Filename = %q", got)
	}
}

func TestExport_SavesArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trip/export" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("session_id") != "sess-9" || q.Get("fmt") != "md" {
			t.Errorf("query = %v", q)
		}
		if q.Get("all_responses") != "" {
			t.Error("all_responses must be absent for latest-only export")
		}
		w.Write([]byte("# Trip Report\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient(srv.URL, dir)

	path, err := client.Export(context.Background(), "sess-9", FormatMarkdown, false)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Base(path) != "trip_sess-9_last.md" {
		t.Errorf("saved as %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "# Trip Report\n" {
		t.Errorf("content = %q", data)
	}
}

func TestExport_AllResponsesFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("all_responses") != "true" {
			t.Error("expected all_responses=true")
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, t.TempDir())
	path, err := client.Export(context.Background(), "s", FormatPDF, true)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasSuffix(path, "trip_s_all_responses.pdf") {
		t.Errorf("path = %q", path)
	}
}

func TestExport_ErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No successful runs found for session_id"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, t.TempDir())
	_, err := client.Export(context.Background(), "ghost", FormatJSON, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error should carry the status: %v", err)
	}
	if !strings.Contains(err.Error(), "No successful runs") {
		t.Errorf("error should carry the body: %v", err)
	}
}

func TestExport_RequiresSessionID(t *testing.T) {
	client := NewClient("http://unused", t.TempDir())
	if _, err := client.Export(context.Background(), "", FormatJSON, false); err == nil {
		t.Error("expected error for empty session id")
	}
}
