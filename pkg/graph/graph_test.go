package graph

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleRecord() *Record {
	return &Record{
		Name:    "intro",
		EntryID: "start",
		Nodes: []NodeRecord{
			{ID: "a", Text: "Hello", Kind: "dialogue", Position: Position{X: 400, Y: 200}},
			{ID: "b", Text: "Bye", Kind: "speech", Position: Position{X: 700, Y: 250}},
		},
		Links: []LinkRecord{
			{SourceID: "start", SourcePortLabel: "Next", TargetID: "a"},
			{SourceID: "a", SourcePortLabel: "Option 1", TargetID: "b"},
			{SourceID: "a", SourcePortLabel: "Again", TargetID: "a"},
		},
		Meta:      map[string]any{"author": "sam"},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"intro.yaml": FormatYAML,
		"intro.YML":  FormatYAML,
		"intro.json": FormatJSON,
		"intro":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "intro"+format.Ext())
			want := sampleRecord()

			if err := WriteFile(want, path); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}

			if got.Name != want.Name || got.EntryID != want.EntryID {
				t.Errorf("header = %q/%q, want %q/%q", got.Name, got.EntryID, want.Name, want.EntryID)
			}
			if len(got.Nodes) != len(want.Nodes) || len(got.Links) != len(want.Links) {
				t.Fatalf("counts = %d/%d, want %d/%d", len(got.Nodes), len(got.Links), len(want.Nodes), len(want.Links))
			}
			for i := range want.Links {
				if got.Links[i] != want.Links[i] {
					t.Errorf("link[%d] = %+v, want %+v", i, got.Links[i], want.Links[i])
				}
			}
			for i := range want.Nodes {
				if got.Nodes[i] != want.Nodes[i] {
					t.Errorf("node[%d] = %+v, want %+v", i, got.Nodes[i], want.Nodes[i])
				}
			}
			if got.Meta["author"] != "sam" {
				t.Errorf("meta author = %v, want sam", got.Meta["author"])
			}
			if !got.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
			}
		})
	}
}

func TestWriteUsesStorageKeys(t *testing.T) {
	data, err := Marshal(sampleRecord(), FormatYAML)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for _, key := range []string{"entry_id:", "source_port:", "target_id:", "position:"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("yaml output missing %q:\n%s", key, data)
		}
	}
	if strings.Contains(string(data), "updated_at") {
		t.Errorf("zero UpdatedAt should be omitted:\n%s", data)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json"), FormatJSON); err == nil {
		t.Error("Unmarshal(invalid json) = nil error")
	}
	if _, err := Unmarshal([]byte("{}"), Format("xml")); err == nil {
		t.Error("Unmarshal(xml) = nil error")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want not-exist", err)
	}
}

func TestRecordHelpers(t *testing.T) {
	rec := sampleRecord()

	if n := rec.Node("b"); n == nil || n.Text != "Bye" {
		t.Errorf("Node(b) = %+v", n)
	}
	if rec.Node("zzz") != nil {
		t.Error("Node(zzz) should be nil")
	}

	links := rec.LinksFrom("a")
	if len(links) != 2 || links[0].SourcePortLabel != "Option 1" || links[1].SourcePortLabel != "Again" {
		t.Errorf("LinksFrom(a) = %+v, want storage order", links)
	}

	if got := rec.ResolvedEntryID(); got != "start" {
		t.Errorf("ResolvedEntryID() = %q, want start", got)
	}
	if got := (&Record{}).ResolvedEntryID(); got != "" {
		t.Errorf("empty ResolvedEntryID() = %q", got)
	}

	s := rec.Summarize()
	if s.Name != "intro" || s.Nodes != 2 || s.Links != 3 {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestClone(t *testing.T) {
	rec := sampleRecord()
	c := rec.Clone()

	c.Nodes[0].Text = "changed"
	c.Links[0].TargetID = "b"
	c.Meta["author"] = "kim"

	if rec.Nodes[0].Text != "Hello" || rec.Links[0].TargetID != "a" || rec.Meta["author"] != "sam" {
		t.Error("Clone shares state with the original")
	}
	if (*Record)(nil).Clone() != nil {
		t.Error("nil Clone should be nil")
	}
}
