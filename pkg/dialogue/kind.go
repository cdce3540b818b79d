package dialogue

import (
	"fmt"
	"strings"
)

// Kind identifies the flavor of a dialogue node. The set is closed; every
// kind has exactly one row in the creation table below.
type Kind int

const (
	// KindDialogue is a plain line of dialogue with choices. It is the zero
	// value and the kind used by the entry node.
	KindDialogue Kind = iota
	// KindSpeech is a monologue or narration beat.
	KindSpeech
	// KindEvent triggers a game-side event when reached.
	KindEvent
	// KindCondition branches on game state.
	KindCondition
)

// kindSpec is one row of the creation table.
type kindSpec struct {
	name  string // persisted form
	title string // search menu entry
	text  string // default node text
}

var kindTable = [...]kindSpec{
	KindDialogue:  {name: "dialogue", title: "Dialogue Node", text: "Dialogue Node"},
	KindSpeech:    {name: "speech", title: "Speech Node", text: "Speech Node"},
	KindEvent:     {name: "event", title: "Event Node", text: "Event Node"},
	KindCondition: {name: "condition", title: "Condition Node", text: "Condition Node"},
}

// Kinds returns every node kind in menu order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindTable))
	for i := range kindTable {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool { return k >= 0 && int(k) < len(kindTable) }

// String returns the persisted name of the kind ("dialogue", "speech", ...).
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindTable[k].name
}

// Title returns the node search menu entry for the kind.
func (k Kind) Title() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTable[k].title
}

// DefaultText returns the text a freshly created node of this kind carries.
func (k Kind) DefaultText() string {
	if !k.Valid() {
		return ""
	}
	return kindTable[k].text
}

// ParseKind converts a persisted kind name to a Kind. Matching is
// case-insensitive. An empty string yields KindDialogue so records written
// before kinds existed still load.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindDialogue, nil
	}
	for i, def := range kindTable {
		if def.name == s {
			return Kind(i), nil
		}
	}
	return KindDialogue, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
