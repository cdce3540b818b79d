package codec

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/observability"
	"github.com/matzehuels/narrative/pkg/store"
)

// scenario builds START → A ("Hello", choice "Option 1") → B ("Bye").
type scenario struct {
	g       *dialogue.Graph
	entry   *dialogue.Node
	a, b    *dialogue.Node
	aChoice *dialogue.Port
}

func newScenario(t *testing.T) scenario {
	t.Helper()
	g := dialogue.New()
	s := scenario{
		g:     g,
		entry: g.EntryNode(),
		a:     dialogue.NewNode("Hello", dialogue.Vec2{X: 300, Y: 100}, dialogue.KindDialogue),
		b:     dialogue.NewNode("Bye", dialogue.Vec2{X: 600, Y: 150}, dialogue.KindSpeech),
	}
	if err := g.AddNode(s.a); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(s.b); err != nil {
		t.Fatal(err)
	}
	s.aChoice = g.AddOutputPort(s.a, "")
	g.Connect(s.entry.Outputs[0], s.a.Input)
	g.Connect(s.aChoice, s.b.Input)
	return s
}

func newTestCodec(s store.Store) *Codec {
	c := New(s, log.New(io.Discard))
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	c.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return c
}

func assertCode(t *testing.T, err error, code errs.Code) {
	t.Helper()
	if !errs.Is(err, code) {
		t.Fatalf("error = %v, want code %s", err, code)
	}
}

// =============================================================================
// Encode
// =============================================================================

func TestEncodeScenario(t *testing.T) {
	s := newScenario(t)

	rec, err := Encode(s.g)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	if rec.EntryID != s.entry.ID {
		t.Errorf("EntryID = %q, want %q", rec.EntryID, s.entry.ID)
	}
	wantNodes := []graph.NodeRecord{
		{ID: s.a.ID, Text: "Hello", Kind: "dialogue", Position: graph.Position{X: 300, Y: 100}},
		{ID: s.b.ID, Text: "Bye", Kind: "speech", Position: graph.Position{X: 600, Y: 150}},
	}
	if len(rec.Nodes) != len(wantNodes) {
		t.Fatalf("Nodes = %+v, want %+v", rec.Nodes, wantNodes)
	}
	for i := range wantNodes {
		if rec.Nodes[i] != wantNodes[i] {
			t.Errorf("Nodes[%d] = %+v, want %+v", i, rec.Nodes[i], wantNodes[i])
		}
	}
	wantLinks := []graph.LinkRecord{
		{SourceID: s.entry.ID, SourcePortLabel: "Next", TargetID: s.a.ID},
		{SourceID: s.a.ID, SourcePortLabel: "Option 1", TargetID: s.b.ID},
	}
	if len(rec.Links) != len(wantLinks) {
		t.Fatalf("Links = %+v, want %+v", rec.Links, wantLinks)
	}
	for i := range wantLinks {
		if rec.Links[i] != wantLinks[i] {
			t.Errorf("Links[%d] = %+v, want %+v", i, rec.Links[i], wantLinks[i])
		}
	}
}

func TestEncodeExcludesEntryNode(t *testing.T) {
	s := newScenario(t)
	rec, err := Encode(s.g)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	for _, n := range rec.Nodes {
		if n.ID == s.entry.ID {
			t.Fatalf("entry node %s stored in Nodes", n.ID)
		}
	}
	if len(rec.Nodes) != s.g.NodeCount()-1 {
		t.Errorf("len(Nodes) = %d, want %d", len(rec.Nodes), s.g.NodeCount()-1)
	}
}

func TestEncodeEmptyGraph(t *testing.T) {
	tests := []struct {
		name  string
		build func() *dialogue.Graph
	}{
		{"entry only", dialogue.New},
		{"nodes without links", func() *dialogue.Graph {
			g := dialogue.New()
			_ = g.AddNode(dialogue.NewNode("lonely", dialogue.Vec2{}, dialogue.KindDialogue))
			return g
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.build())
			assertCode(t, err, errs.ErrCodeEmptyGraph)
		})
	}
}

func TestEncodeSharedLabels(t *testing.T) {
	t.Run("two linked choices share a label", func(t *testing.T) {
		s := newScenario(t)
		dup := s.g.AddOutputPort(s.a, "Option 1")
		s.g.Connect(dup, s.a.Input)
		rec, err := Encode(s.g)
		if err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		if got := len(rec.LinksFrom(s.a.ID)); got != 2 {
			t.Errorf("links from A = %d, want 2", got)
		}
	})

	t.Run("one choice with two links", func(t *testing.T) {
		s := newScenario(t)
		s.g.Connect(s.aChoice, s.a.Input)
		_, err := Encode(s.g)
		assertCode(t, err, errs.ErrCodeInvalidInput)
	})

	t.Run("unlinked duplicates are fine", func(t *testing.T) {
		s := newScenario(t)
		s.g.AddOutputPort(s.a, "Option 1")
		if _, err := Encode(s.g); err != nil {
			t.Errorf("Encode() error: %v", err)
		}
	})
}

// =============================================================================
// Check / Decode
// =============================================================================

func scenarioRecord() *graph.Record {
	return &graph.Record{
		Name:    "scenario",
		EntryID: "E",
		Nodes: []graph.NodeRecord{
			{ID: "A", Text: "Hello", Kind: "dialogue", Position: graph.Position{X: 300, Y: 100}},
			{ID: "B", Text: "Bye", Kind: "speech", Position: graph.Position{X: 600, Y: 150}},
		},
		Links: []graph.LinkRecord{
			{SourceID: "E", SourcePortLabel: "Next", TargetID: "A"},
			{SourceID: "A", SourcePortLabel: "Option 1", TargetID: "B"},
		},
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *graph.Record)
		graph  func() *dialogue.Graph
		want   errs.Code
	}{
		{"valid", func(r *graph.Record) {}, nil, ""},
		{"no entry node", func(r *graph.Record) {}, dialogue.NewEmpty, errs.ErrCodeNoEntryNode},
		{"duplicate node", func(r *graph.Record) { r.Nodes[1].ID = "A" }, nil, errs.ErrCodeDuplicateNode},
		{"node collides with entry", func(r *graph.Record) { r.Nodes[1].ID = "E" }, nil, errs.ErrCodeDuplicateNode},
		{"empty node id", func(r *graph.Record) { r.Nodes[0].ID = "" }, nil, errs.ErrCodeInvalidFormat},
		{"unknown kind", func(r *graph.Record) { r.Nodes[0].Kind = "cutscene" }, nil, errs.ErrCodeInvalidFormat},
		{"unknown source", func(r *graph.Record) { r.Links[1].SourceID = "ghost" }, nil, errs.ErrCodeDanglingReference},
		{"unknown target", func(r *graph.Record) { r.Links[1].TargetID = "ghost" }, nil, errs.ErrCodeDanglingReference},
		{"link into entry", func(r *graph.Record) { r.Links[1].TargetID = "E" }, nil, errs.ErrCodeDanglingReference},
		{"unknown entry port", func(r *graph.Record) { r.Links[0].SourcePortLabel = "Go" }, nil, errs.ErrCodeDanglingReference},
		{"shared label", func(r *graph.Record) {
			r.Links = append(r.Links, graph.LinkRecord{SourceID: "A", SourcePortLabel: "Option 1", TargetID: "A"})
		}, nil, ""},
		{"second entry link", func(r *graph.Record) {
			r.Links = append(r.Links, graph.LinkRecord{SourceID: "E", SourcePortLabel: "Next", TargetID: "B"})
		}, nil, errs.ErrCodeDanglingReference},
		{"legacy first link leaves a stored node", func(r *graph.Record) {
			r.EntryID = ""
			r.Links[0], r.Links[1] = r.Links[1], r.Links[0]
		}, nil, errs.ErrCodeDanglingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := scenarioRecord()
			tt.mutate(rec)
			g := dialogue.New()
			if tt.graph != nil {
				g = tt.graph()
			}

			err := Check(g, rec)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Check() error: %v", err)
				}
				return
			}
			assertCode(t, err, tt.want)
		})
	}
}

func TestDecodeScenario(t *testing.T) {
	g := dialogue.New()
	if err := Decode(g, scenarioRecord()); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	entry := g.EntryNode()
	if entry.ID != "E" {
		t.Errorf("entry ID = %q, want E", entry.ID)
	}
	a, ok := g.Node("A")
	if !ok {
		t.Fatal("node A missing")
	}
	b, ok := g.Node("B")
	if !ok {
		t.Fatal("node B missing")
	}
	if len(a.Outputs) != 1 || a.Outputs[0].Label() != "Option 1" {
		t.Fatalf("A outputs = %v, want [Option 1]", a.Outputs)
	}
	edges := g.EdgesAt(a.Outputs[0])
	if len(edges) != 1 || edges[0].TargetNode() != b {
		t.Errorf("Option 1 edges = %v, want one edge to B", edges)
	}
	if b.Position != (dialogue.Vec2{X: 600, Y: 150}) {
		t.Errorf("B position = %v, want (600, 150)", b.Position)
	}
	if b.Kind != dialogue.KindSpeech || b.Text != "Bye" {
		t.Errorf("B = %q/%v, want Bye/speech", b.Text, b.Kind)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDecodeLegacyEntry(t *testing.T) {
	rec := scenarioRecord()
	rec.EntryID = ""
	rec.Links[0].SourceID = "legacy-entry"

	g := dialogue.New()
	if err := Decode(g, rec); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := g.EntryNode().ID; got != "legacy-entry" {
		t.Errorf("entry ID = %q, want legacy-entry", got)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestDecodeLegacyEntryMisplaced(t *testing.T) {
	rec := scenarioRecord()
	rec.EntryID = ""
	rec.Links[0], rec.Links[1] = rec.Links[1], rec.Links[0]

	s := newScenario(t)
	before, _ := Encode(s.g)
	err := Decode(s.g, rec)
	assertCode(t, err, errs.ErrCodeDanglingReference)
	if !strings.Contains(err.Error(), "first link does not leave the entry node") {
		t.Errorf("error = %v, want the legacy entry message", err)
	}
	after, _ := Encode(s.g)
	if !reflect.DeepEqual(before, after) {
		t.Error("graph changed after a rejected legacy record")
	}
}

// Removing "Option 1" from "Option 1"/"Option 2" and adding a choice yields a
// second "Option 2"; both must survive a save and load.
func TestSaveLoadSharedLabels(t *testing.T) {
	g := dialogue.New()
	a := dialogue.NewNode("Hub", dialogue.Vec2{X: 400, Y: 200}, dialogue.KindDialogue)
	b := dialogue.NewNode("Left", dialogue.Vec2{X: 700, Y: 100}, dialogue.KindDialogue)
	c := dialogue.NewNode("Right", dialogue.Vec2{X: 700, Y: 300}, dialogue.KindDialogue)
	for _, n := range []*dialogue.Node{a, b, c} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.Connect(g.EntryNode().Outputs[0], a.Input)

	first := g.AddOutputPort(a, "")
	g.AddOutputPort(a, "")
	g.RemovePort(a, first)
	g.AddOutputPort(a, "")
	if a.Outputs[0].Label() != "Option 2" || a.Outputs[1].Label() != "Option 2" {
		t.Fatalf("labels = %q %q, want two Option 2", a.Outputs[0].Label(), a.Outputs[1].Label())
	}
	g.Connect(a.Outputs[0], b.Input)
	g.Connect(a.Outputs[1], c.Input)

	c0 := newTestCodec(store.NewMemoryStore())
	ctx := context.Background()
	if _, err := c0.Save(ctx, g, "branches"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := dialogue.New()
	if err := c0.Load(ctx, loaded, "branches"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	hub, _ := loaded.Node(a.ID)
	if len(hub.Outputs) != 2 {
		t.Fatalf("hub outputs = %d, want 2", len(hub.Outputs))
	}
	for i, want := range []string{b.ID, c.ID} {
		p := hub.Outputs[i]
		edges := loaded.EdgesAt(p)
		if p.Label() != "Option 2" || len(edges) != 1 || edges[0].TargetNode().ID != want {
			t.Errorf("output %d = %q -> %v, want Option 2 -> %s", i, p.Label(), edges, want)
		}
	}
}

func TestDecodeReplacesContent(t *testing.T) {
	s := newScenario(t)
	extra := dialogue.NewNode("stale", dialogue.Vec2{}, dialogue.KindEvent)
	_ = s.g.AddNode(extra)

	if err := Decode(s.g, scenarioRecord()); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", s.g.NodeCount())
	}
	if _, ok := s.g.Node(extra.ID); ok {
		t.Error("stale node survived decode")
	}
	if s.g.EntryNode() != s.entry {
		t.Error("entry node was replaced instead of rebound")
	}
	if s.g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", s.g.EdgeCount())
	}
}

func TestDecodeFailureLeavesGraphUntouched(t *testing.T) {
	s := newScenario(t)
	entryID := s.entry.ID
	rec := scenarioRecord()
	rec.Links[1].TargetID = "ghost"

	err := Decode(s.g, rec)
	assertCode(t, err, errs.ErrCodeDanglingReference)

	if s.g.NodeCount() != 3 || s.g.EdgeCount() != 2 {
		t.Errorf("graph changed: %d nodes, %d edges", s.g.NodeCount(), s.g.EdgeCount())
	}
	if s.entry.ID != entryID {
		t.Errorf("entry rebound to %q", s.entry.ID)
	}
	if _, ok := s.g.Node(s.a.ID); !ok {
		t.Error("node A removed")
	}
}

func TestDecodePreservesExactTextAndLabels(t *testing.T) {
	rec := scenarioRecord()
	rec.Nodes[0].Text = ""
	rec.Links[1].SourcePortLabel = ""

	g := dialogue.New()
	if err := Decode(g, rec); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	a, _ := g.Node("A")
	if a.Text != "" {
		t.Errorf("A text = %q, want empty", a.Text)
	}
	if len(a.Outputs) != 1 || a.Outputs[0].Label() != "" {
		t.Errorf("A outputs = %v, want one unlabelled port", a.Outputs)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestDecodePlacesUnlinkedNodes(t *testing.T) {
	rec := scenarioRecord()
	rec.Nodes = append(rec.Nodes, graph.NodeRecord{ID: "C", Text: "aside", Position: graph.Position{X: 50, Y: 60}})

	g := dialogue.New()
	if err := Decode(g, rec); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	c, ok := g.Node("C")
	if !ok {
		t.Fatal("node C missing")
	}
	if c.Position != (dialogue.Vec2{X: 50, Y: 60}) {
		t.Errorf("C position = %v, want (50, 60)", c.Position)
	}
	if c.Kind != dialogue.KindDialogue {
		t.Errorf("C kind = %v, want dialogue for empty kind", c.Kind)
	}
}

func TestPortCountMatchesLinkCount(t *testing.T) {
	s := newScenario(t)
	// A second, linked choice on A and one on B.
	back := s.g.AddOutputPort(s.a, "Ask again")
	s.g.Connect(back, s.a.Input)
	end := s.g.AddOutputPort(s.b, "")
	s.g.Connect(end, s.a.Input)
	// Unlinked choices are not persisted.
	s.g.AddOutputPort(s.b, "dangling")

	rec, err := Encode(s.g)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	g := dialogue.New()
	if err := Decode(g, rec); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	for _, n := range g.Nodes() {
		if n.EntryPoint {
			continue
		}
		if got, want := len(n.Outputs), len(rec.LinksFrom(n.ID)); got != want {
			t.Errorf("node %q: %d output ports, %d links", n.Text, got, want)
		}
	}
}

// =============================================================================
// Save / Load
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newScenario(t)
	c := newTestCodec(store.NewMemoryStore())

	if _, err := c.Save(ctx, s.g, "scenario"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	g := dialogue.New()
	if err := c.Load(ctx, g, "scenario"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if g.EntryNode().ID != s.entry.ID {
		t.Errorf("entry ID = %q, want %q", g.EntryNode().ID, s.entry.ID)
	}
	for _, want := range []*dialogue.Node{s.a, s.b} {
		got, ok := g.Node(want.ID)
		if !ok {
			t.Fatalf("node %s missing", want.ID)
		}
		if got.Text != want.Text || got.Kind != want.Kind || got.Position != want.Position {
			t.Errorf("node %s = %q/%v/%v, want %q/%v/%v",
				want.ID, got.Text, got.Kind, got.Position, want.Text, want.Kind, want.Position)
		}
	}

	type pair struct{ src, label, dst string }
	collect := func(g *dialogue.Graph) map[pair]bool {
		out := make(map[pair]bool)
		for _, e := range g.Edges() {
			out[pair{e.SourceNode().ID, e.Source.Label(), e.TargetNode().ID}] = true
		}
		return out
	}
	want, got := collect(s.g), collect(g)
	if len(got) != len(want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
	for p := range want {
		if !got[p] {
			t.Errorf("edge %v missing after load", p)
		}
	}
}

func TestSaveEmptyGraphKeepsPriorRecord(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newTestCodec(st)

	if _, err := c.Save(ctx, newScenario(t).g, "scenario"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	_, err := c.Save(ctx, dialogue.New(), "scenario")
	assertCode(t, err, errs.ErrCodeEmptyGraph)

	rec, err := st.Get(ctx, "scenario")
	if err != nil || rec == nil {
		t.Fatalf("Get() = %v, %v", rec, err)
	}
	if len(rec.Links) != 2 {
		t.Errorf("prior record changed: %d links", len(rec.Links))
	}
}

func TestSaveInvalidName(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newTestCodec(st)

	for _, name := range []string{"", "   ", "../up"} {
		_, err := c.Save(ctx, newScenario(t).g, name)
		assertCode(t, err, errs.ErrCodeInvalidName)
	}
	names, _ := st.List(ctx)
	if len(names) != 0 {
		t.Errorf("stored %v after invalid saves", names)
	}
}

func TestSaveIdempotentOverwrite(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := newTestCodec(st)
	s := newScenario(t)

	first, err := c.Save(ctx, s.g, "scenario")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	second, err := c.Save(ctx, s.g, "scenario")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if len(first.Nodes) != len(second.Nodes) || len(first.Links) != len(second.Links) {
		t.Fatalf("second save differs: %+v vs %+v", first, second)
	}
	for i := range first.Links {
		if first.Links[i] != second.Links[i] {
			t.Errorf("Links[%d] = %+v, want %+v", i, second.Links[i], first.Links[i])
		}
	}
	for i := range first.Nodes {
		if first.Nodes[i] != second.Nodes[i] {
			t.Errorf("Nodes[%d] = %+v, want %+v", i, second.Nodes[i], first.Nodes[i])
		}
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	names, _ := st.List(ctx)
	if len(names) != 1 {
		t.Errorf("List() = %v, want one record", names)
	}
}

func TestSavePreservesMetadata(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	_ = st.Put(ctx, &graph.Record{
		Name:      "scenario",
		Meta:      map[string]any{"author": "sam", "chapter": 3},
		CreatedAt: created,
	})

	rec, err := newTestCodec(st).Save(ctx, newScenario(t).g, "scenario")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if rec.Meta["author"] != "sam" || rec.Meta["chapter"] != 3 {
		t.Errorf("Meta = %v, want author and chapter kept", rec.Meta)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, created)
	}
	if len(rec.Links) != 2 {
		t.Errorf("Links = %d, want 2", len(rec.Links))
	}
}

func TestLoadMissingRecord(t *testing.T) {
	ctx := context.Background()
	s := newScenario(t)
	c := newTestCodec(store.NewMemoryStore())

	err := c.Load(ctx, s.g, "nope")
	assertCode(t, err, errs.ErrCodeRecordNotFound)
	if errs.UserMessage(err) != "Target Narrative Data does not exist!" {
		t.Errorf("message = %q", errs.UserMessage(err))
	}
	if s.g.NodeCount() != 3 || s.g.EdgeCount() != 2 {
		t.Errorf("graph changed: %d nodes, %d edges", s.g.NodeCount(), s.g.EdgeCount())
	}
}

func TestLoadInvalidName(t *testing.T) {
	c := newTestCodec(store.NewMemoryStore())
	err := c.Load(context.Background(), dialogue.New(), "")
	assertCode(t, err, errs.ErrCodeInvalidName)
}

type countingCodecHooks struct {
	observability.NoopCodecHooks
	saves, loads int
	lastErr      error
}

func (h *countingCodecHooks) OnSaveComplete(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	h.saves++
	h.lastErr = err
}

func (h *countingCodecHooks) OnLoadComplete(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	h.loads++
	h.lastErr = err
}

func TestCodecHooks(t *testing.T) {
	hooks := &countingCodecHooks{}
	observability.SetCodecHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	c := newTestCodec(store.NewMemoryStore())
	if _, err := c.Save(ctx, newScenario(t).g, "scenario"); err != nil {
		t.Fatal(err)
	}
	_ = c.Load(ctx, dialogue.New(), "missing")

	if hooks.saves != 1 || hooks.loads != 1 {
		t.Errorf("saves/loads = %d/%d, want 1/1", hooks.saves, hooks.loads)
	}
	if !errs.Is(hooks.lastErr, errs.ErrCodeRecordNotFound) {
		t.Errorf("last hook error = %v, want RECORD_NOT_FOUND", hooks.lastErr)
	}
}
