package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/narrative/pkg/codec"
	"github.com/matzehuels/narrative/pkg/dialogue"
	"github.com/matzehuels/narrative/pkg/editor"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

// firstNodePosition is where "new" places the node linked from START.
var firstNodePosition = dialogue.Vec2{X: 400, Y: 200}

var timeNow = time.Now

// =============================================================================
// Session Helpers
// =============================================================================

// openSession loads name into a fresh editing session. The returned close
// function releases the store.
func (c *CLI) openSession(ctx context.Context, name string) (*editor.Session, func(), error) {
	cd, st, err := c.newCodec(ctx)
	if err != nil {
		return nil, nil, err
	}
	s := editor.NewSession(cd, notifier{w: os.Stderr})
	if err := s.RequestLoad(ctx, name); err != nil {
		st.Close()
		return nil, nil, reportedError{err}
	}
	return s, func() { st.Close() }, nil
}

// editRecord loads name, applies edit and saves the result under the same
// name. Nothing is saved if edit fails.
func (c *CLI) editRecord(ctx context.Context, name string, edit func(s *editor.Session) error) error {
	s, done, err := c.openSession(ctx, name)
	if err != nil {
		return err
	}
	defer done()

	if err := edit(s); err != nil {
		return err
	}
	if err := s.RequestSave(ctx, name); err != nil {
		return reportedError{err}
	}
	return nil
}

// readSummaries returns a listing entry for every stored record.
func readSummaries(ctx context.Context, st store.Store) ([]graph.Summary, error) {
	names, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]graph.Summary, 0, len(names))
	for _, name := range names {
		rec, err := st.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if rec != nil {
			out = append(out, rec.Summarize())
		}
	}
	return out, nil
}

// =============================================================================
// new
// =============================================================================

func (c *CLI) newCommand() *cobra.Command {
	var (
		kindStr string
		text    string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a narrative with a first node linked from START",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dialogue.ParseKind(kindStr)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid kind %q", kindStr)
			}
			return c.runNew(cmd.Context(), args[0], kind, text, force)
		},
	}

	cmd.Flags().StringVarP(&kindStr, "kind", "k", "dialogue", "kind of the first node: dialogue, speech, event, condition")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text of the first node (default: the kind's default text)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing narrative")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, name string, kind dialogue.Kind, text string, force bool) error {
	cd, st, err := c.newCodec(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if !force {
		if err := errs.ValidateName(name); err != nil {
			return err
		}
		existing, err := st.Get(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.New(errs.ErrCodeInvalidInput, "narrative %q already exists (use --force to replace it)", name)
		}
	}

	s := editor.NewSession(cd, notifier{w: os.Stderr})
	n := s.CreateNode(kind, firstNodePosition)
	if text != "" {
		s.EditText(n, text)
	}
	s.DragEdge(s.Graph.EntryNode().Outputs[0], n.Input)
	if err := s.RequestSave(ctx, name); err != nil {
		return reportedError{err}
	}

	printSuccess("Created %s", StyleHighlight.Render(name))
	printDetail("first node %s", shortID(n.ID))
	printNextStep("Add a node", fmt.Sprintf("%s node add %q --from %s", appName, name, shortID(n.ID)))
	return nil
}

// =============================================================================
// show
// =============================================================================

func (c *CLI) showCommand() *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Print a narrative's nodes and choices",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw != "" {
				return c.runExport(cmd.Context(), args[0], "", raw)
			}
			return c.runShow(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&raw, "raw", "", "print the stored record instead: json or yaml")
	return cmd
}

func (c *CLI) runShow(ctx context.Context, name string) error {
	s, done, err := c.openSession(ctx, name)
	if err != nil {
		return err
	}
	defer done()

	fmt.Println(StyleTitle.Render(name))
	printStats(s.Graph.NodeCount()-1, s.Graph.EdgeCount())
	printNewline()
	printGraph(s.Graph)
	return nil
}

// =============================================================================
// list & browse
// =============================================================================

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored narratives",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := readSummaries(ctx, st)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No narratives in the %s store", c.Config.Store.Backend)
				printNextStep("Create one", appName+" new <name>")
				return nil
			}
			for _, sum := range summaries {
				fmt.Println(StyleValue.Render(sum.Name))
				printStats(sum.Nodes, sum.Links, formatRelativeTime(sum.UpdatedAt, timeNow()))
			}
			return nil
		},
	}
}

func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a stored narrative interactively and show it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			summaries, err := readSummaries(ctx, st)
			st.Close()
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewRecordListModel(summaries), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			m, ok := final.(RecordListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			return c.runShow(ctx, m.Selected.Name)
		},
	}
}

// =============================================================================
// delete
// =============================================================================

func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>...",
		Aliases:           []string{"rm"},
		Short:             "Delete stored narratives",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, name := range args {
				if err := errs.ValidateName(name); err != nil {
					return err
				}
				rec, err := st.Get(ctx, name)
				if err != nil {
					return err
				}
				if rec == nil {
					printWarning("%s does not exist", name)
					continue
				}
				if err := st.Delete(ctx, name); err != nil {
					return err
				}
				printSuccess("Deleted %s", name)
			}
			return nil
		},
	}
}

// =============================================================================
// import & export
// =============================================================================

func (c *CLI) importCommand() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a narrative record from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], name, force)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "record name (default: the name in the file, else the file name)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing narrative")
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path, name string, force bool) error {
	rec, err := graph.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	if name == "" {
		name = rec.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := errs.ValidateName(name); err != nil {
		return err
	}
	// Refuse records that would not load.
	if err := codec.Check(dialogue.New(), rec); err != nil {
		return err
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if !force {
		existing, err := st.Get(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.New(errs.ErrCodeInvalidInput, "narrative %q already exists (use --force to replace it)", name)
		}
	}

	rec.Name = name
	if err := st.Put(ctx, rec); err != nil {
		return err
	}
	printSuccess("Imported %s", StyleHighlight.Render(name))
	printStats(len(rec.Nodes), len(rec.Links))
	return nil
}

func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:               "export <name>",
		Short:             "Write a stored narrative record to a file or stdout",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; the extension picks the format (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "stdout format: json or yaml")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, name, output, formatStr string) error {
	if err := errs.ValidateName(name); err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(ctx, name)
	if err != nil {
		return err
	}
	if rec == nil {
		return errs.New(errs.ErrCodeRecordNotFound, "Target Narrative Data does not exist!")
	}

	if output != "" {
		if err := graph.WriteFile(rec, output); err != nil {
			return err
		}
		printSuccess("Exported %s", name)
		printFile(output)
		return nil
	}

	format, err := graph.ParseFormat(formatStr)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid format %q", formatStr)
	}
	return graph.Write(rec, os.Stdout, format)
}
