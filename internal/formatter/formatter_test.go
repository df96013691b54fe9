package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
	th "github.com/desertthunder/tracklab/internal/testing"
)

var created = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func testSummaries() []models.Summary {
	return []models.Summary{
		{ID: models.CodeAddress("AB12CD"), Name: "Morning, Loop", CreatedAt: created.Add(time.Minute)},
		{ID: models.CodeAddress("XYZ789"), Name: "Bassline", CreatedAt: created},
	}
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "csv", want: FormatCSV},
		{in: "json", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("SummariesToCSV", func(t *testing.T) {
		data, err := SummariesToCSV(testSummaries())
		if err != nil {
			t.Fatalf("SummariesToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines: %s", len(lines), data)
		}
		if lines[0] != "ID,Name,Created" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != `AB12CD,"Morning, Loop",2025-03-14T15:10:26Z` {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("SummariesToCSV empty", func(t *testing.T) {
		data, err := SummariesToCSV(nil)
		if err != nil {
			t.Fatalf("SummariesToCSV failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "ID,Name,Created" {
			t.Errorf("expected headers only, got %q", data)
		}
	})

	t.Run("SummariesToTable", func(t *testing.T) {
		output := string(SummariesToTable(testSummaries()))

		for _, want := range []string{"ID", "NAME", "CREATED", "AB12CD", "Morning, Loop", "XYZ789", "2025-03-14T15:09:26Z"} {
			if !strings.Contains(output, want) {
				t.Errorf("table missing %q, got:\n%s", want, output)
			}
		}
		if strings.Index(output, "AB12CD") > strings.Index(output, "XYZ789") {
			t.Error("expected rows in the given order")
		}
	})

	t.Run("Render JSON", func(t *testing.T) {
		data, err := Render(testSummaries(), FormatJSON)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var got []map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[0]["id"] != "AB12CD" {
			t.Errorf("unexpected JSON output: %s", data)
		}
		if _, ok := got[0]["tracks"]; ok {
			t.Error("expected summaries without tracks")
		}
	})

	t.Run("Render sequential ids", func(t *testing.T) {
		data, err := Render([]models.Summary{{ID: models.SequenceAddress(42), Name: "n", CreatedAt: created}}, FormatCSV)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(string(data), "42,n,") {
			t.Errorf("expected numeric id in CSV, got %s", data)
		}
	})
}

func TestCompositionToText(t *testing.T) {
	t.Run("indents JSON tracks", func(t *testing.T) {
		comp := &models.Composition{ID: models.SequenceAddress(3), Name: "Beat", Tracks: `[{"a":1}]`, CreatedAt: created}
		output := string(CompositionToText(comp))

		for _, want := range []string{"Composition: Beat", "ID: 3", "Created: 2025-03-14T15:09:26Z", "\"a\": 1"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("keeps opaque tracks verbatim", func(t *testing.T) {
		comp := &models.Composition{ID: models.CodeAddress("AB12CD"), Name: "Raw", Tracks: "not json; at all", CreatedAt: created}
		if !strings.Contains(string(CompositionToText(comp)), "not json; at all") {
			t.Error("expected raw tracks in output")
		}
	})
}

func TestWriteCompositionExport(t *testing.T) {
	comp := &models.Composition{ID: models.CodeAddress("AB12CD"), Name: "Beat", Tracks: `[]`, CreatedAt: created}

	path := filepath.Join(t.TempDir(), "beat.json")
	got, err := WriteCompositionExport(comp, path)
	if err != nil {
		t.Fatalf("WriteCompositionExport failed: %v", err)
	}
	if got != path {
		t.Errorf("expected path %s, got %s", path, got)
	}

	th.AssertFileExists(t, path)

	var back models.Composition
	if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &back); err != nil {
		t.Fatalf("invalid export: %v", err)
	}
	if back.ID != comp.ID || back.Tracks != comp.Tracks || !back.CreatedAt.Equal(created) {
		t.Errorf("export did not round-trip: %+v", back)
	}

	t.Run("unwritable path", func(t *testing.T) {
		if _, err := WriteCompositionExport(comp, filepath.Join(t.TempDir(), "missing", "x.json")); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
