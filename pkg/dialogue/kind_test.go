package dialogue

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"dialogue", KindDialogue, false},
		{"Speech", KindSpeech, false},
		{" event ", KindEvent, false},
		{"condition", KindCondition, false},
		{"", KindDialogue, false},
		{"cutscene", KindDialogue, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownKind) {
				t.Errorf("error = %v, want %v", err, ErrUnknownKind)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindsTable(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 4 {
		t.Fatalf("Kinds() = %v, want 4 kinds", kinds)
	}
	for _, k := range kinds {
		if k.Title() == "" || k.DefaultText() == "" {
			t.Errorf("%v has empty title or text", k)
		}
		back, err := ParseKind(k.String())
		if err != nil || back != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), back, err)
		}
	}
	if KindDialogue.Title() != "Dialogue Node" {
		t.Errorf("KindDialogue.Title() = %q", KindDialogue.Title())
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("event")); err != nil || k != KindEvent {
		t.Errorf("UnmarshalText(event) = %v, %v", k, err)
	}
	if _, err := Kind(42).MarshalText(); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("MarshalText(42) error = %v, want %v", err, ErrUnknownKind)
	}
	if Kind(42).String() != "Kind(42)" {
		t.Errorf("String() = %q", Kind(42).String())
	}
}
