package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/narrative/pkg/dialogue"
	"github.com/matzehuels/narrative/pkg/editor"
	errs "github.com/matzehuels/narrative/pkg/errors"
)

// entryRefs are the node references that always mean the entry node.
var entryRefs = []string{"start", "entry"}

// =============================================================================
// Reference Resolution
// =============================================================================

// resolveNode finds a node by "start", full ID or unique ID prefix.
func resolveNode(g *dialogue.Graph, ref string) (*dialogue.Node, error) {
	ref = strings.TrimSpace(ref)
	for _, e := range entryRefs {
		if strings.EqualFold(ref, e) {
			return g.EntryNode(), nil
		}
	}
	if n, ok := g.Node(ref); ok {
		return n, nil
	}
	if ref == "" {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "empty node reference")
	}

	var match *dialogue.Node
	for _, n := range g.Nodes() {
		if !strings.HasPrefix(n.ID, ref) {
			continue
		}
		if match != nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "node reference %q is ambiguous", ref)
		}
		match = n
	}
	if match == nil {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "no node matches %q", ref)
	}
	return match, nil
}

// resolveChoice finds the output port of n labelled label, or the N-th
// output for "#N". An empty label selects the only output when there is
// exactly one.
func resolveChoice(n *dialogue.Node, label string) (*dialogue.Port, error) {
	if rest, ok := strings.CutPrefix(label, "#"); ok {
		if i, err := strconv.Atoi(rest); err == nil {
			if i < 1 || i > len(n.Outputs) {
				return nil, errs.New(errs.ErrCodePortNotFound, "node %s has no choice %s", shortID(n.ID), label)
			}
			return n.Outputs[i-1], nil
		}
	}
	if label == "" {
		if len(n.Outputs) == 1 {
			return n.Outputs[0], nil
		}
		return nil, errs.New(errs.ErrCodeInvalidInput, "node %s has %d choices; pick one with --choice", shortID(n.ID), len(n.Outputs))
	}

	var match *dialogue.Port
	for _, p := range n.Outputs {
		if p.Label() != label {
			continue
		}
		if match != nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "node %s has more than one choice labelled %q; pick one as #N", shortID(n.ID), label)
		}
		match = p
	}
	if match == nil {
		return nil, errs.New(errs.ErrCodePortNotFound, "node %s has no choice labelled %q", shortID(n.ID), label)
	}
	return match, nil
}

// parsePosition reads "x,y".
func parsePosition(s string) (dialogue.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return dialogue.Vec2{}, errs.New(errs.ErrCodeInvalidInput, "position %q must be x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return dialogue.Vec2{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid x in %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return dialogue.Vec2{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid y in %q", s)
	}
	return dialogue.Vec2{X: x, Y: y}, nil
}

// linkChoice points p at target, replacing any existing link.
func linkChoice(s *editor.Session, p *dialogue.Port, target *dialogue.Node) error {
	if target.Input == nil {
		return errs.New(errs.ErrCodeInvalidInput, "the entry node cannot be a link target")
	}
	if s.DragEdge(p, target.Input) == nil {
		return errs.New(errs.ErrCodeInvalidInput, "cannot link %s to itself", shortID(target.ID))
	}
	return nil
}

// =============================================================================
// node
// =============================================================================

func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, remove and edit nodes of a stored narrative",
	}

	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeTextCommand())
	cmd.AddCommand(c.nodeMoveCommand())

	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var (
		kindStr string
		text    string
		at      string
		from    string
		choice  string
	)

	cmd := &cobra.Command{
		Use:               "add <narrative>",
		Short:             "Add a node, optionally linked from a new choice on another node",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dialogue.ParseKind(kindStr)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid kind %q", kindStr)
			}
			var pos dialogue.Vec2
			if at != "" {
				if pos, err = parsePosition(at); err != nil {
					return err
				}
			}

			var added *dialogue.Node
			err = c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				var src *dialogue.Node
				if from != "" {
					var err error
					if src, err = resolveNode(s.Graph, from); err != nil {
						return err
					}
					if at == "" {
						pos = dialogue.Vec2{X: src.Position.X + 2*dialogue.DefaultNodeSize.X, Y: src.Position.Y}
					}
				}

				added = s.CreateNode(kind, pos)
				if text != "" {
					s.EditText(added, text)
				}
				if src == nil {
					return nil
				}
				// The entry node has a single fixed choice; everything else
				// grows a new one.
				p := src.Output(dialogue.EntryPortLabel)
				if !src.EntryPoint {
					p = s.AddChoice(src, choice)
				}
				return linkChoice(s, p, added)
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s node %s", added.Kind, StyleHighlight.Render(shortID(added.ID)))
			if from == "" {
				printDetail("unlinked nodes are kept only while the narrative has at least one link")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindStr, "kind", "k", "dialogue", "node kind: dialogue, speech, event, condition")
	cmd.Flags().StringVarP(&text, "text", "t", "", "node text (default: the kind's default text)")
	cmd.Flags().StringVar(&at, "at", "", "canvas position as x,y")
	cmd.Flags().StringVar(&from, "from", "", "node (ID prefix or \"start\") that links to the new node")
	cmd.Flags().StringVarP(&choice, "choice", "c", "", "label of the new choice on --from (default: Option N)")
	return cmd
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <narrative> <node>",
		Short:             "Remove a node and its links",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				if !n.Deletable() {
					return errs.New(errs.ErrCodeInvalidInput, "the entry node cannot be removed")
				}
				s.RemoveNode(n)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Removed node %s", args[1])
			return nil
		},
	}
}

func (c *CLI) nodeTextCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "text <narrative> <node> <text>",
		Short:             "Replace a node's text",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				if n.EntryPoint {
					return errs.New(errs.ErrCodeInvalidInput, "the entry node's text is fixed")
				}
				s.EditText(n, args[2])
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Updated text of %s", args[1])
			return nil
		},
	}
}

func (c *CLI) nodeMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move <narrative> <node> <x,y>",
		Short:             "Move a node on the canvas",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			err = c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				if !n.Movable() {
					return errs.New(errs.ErrCodeInvalidInput, "the entry node cannot be moved")
				}
				s.MoveNode(n, pos)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Moved %s to %s", args[1], pos)
			return nil
		},
	}
}

// =============================================================================
// choice
// =============================================================================

func (c *CLI) choiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choice",
		Short: "Add, remove and rename choices",
		Long: `Add, remove and rename choices.

Only linked choices are stored, so "choice add" always takes a target node.
A choice is named by its label, or by "#N" for the N-th choice of a node.`,
	}

	cmd.AddCommand(c.choiceAddCommand())
	cmd.AddCommand(c.choiceRemoveCommand())
	cmd.AddCommand(c.choiceRenameCommand())

	return cmd
}

func (c *CLI) choiceAddCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:               "add <narrative> <node> <target>",
		Short:             "Add a choice to a node and link it to target",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			var added *dialogue.Port
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				if n.EntryPoint {
					return errs.New(errs.ErrCodeInvalidInput, "the entry node has a single fixed choice; use link to retarget it")
				}
				target, err := resolveNode(s.Graph, args[2])
				if err != nil {
					return err
				}
				added = s.AddChoice(n, label)
				return linkChoice(s, added, target)
			})
			if err != nil {
				return err
			}
			printSuccess("Added choice %s", StyleChoice.Render(added.Label()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "choice label (default: Option N)")
	return cmd
}

func (c *CLI) choiceRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <narrative> <node> <label>",
		Short:             "Remove a choice and its link",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				p, err := resolveChoice(n, args[2])
				if err != nil {
					return err
				}
				if p.Fixed() {
					return errs.New(errs.ErrCodeInvalidInput, "choice %q cannot be removed", p.Label())
				}
				s.RemovePort(n, p)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Removed choice %s", StyleChoice.Render(args[2]))
			return nil
		},
	}
}

func (c *CLI) choiceRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <narrative> <node> <label> <new-label>",
		Short:             "Rename a choice",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				p, err := resolveChoice(n, args[2])
				if err != nil {
					return err
				}
				if p.Fixed() {
					return errs.New(errs.ErrCodeInvalidInput, "choice %q cannot be renamed", p.Label())
				}
				if other := n.Output(args[3]); other != nil && other != p {
					return errs.New(errs.ErrCodeDuplicateLabel, "node %s already has a choice labelled %q", shortID(n.ID), args[3])
				}
				s.RenameChoice(p, args[3])
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Renamed %s %s %s", StyleChoice.Render(args[2]), StyleDim.Render(iconArrow), StyleChoice.Render(args[3]))
			return nil
		},
	}
}

// =============================================================================
// link
// =============================================================================

func (c *CLI) linkCommand() *cobra.Command {
	var choice string

	cmd := &cobra.Command{
		Use:   "link <narrative> <node> <target>",
		Short: "Point an existing choice at another node",
		Long: `Point an existing choice at another node, replacing its current link.

The choice is picked with --choice; it may be omitted when the node has
exactly one, as the entry node always does.`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			var label string
			err := c.editRecord(cmd.Context(), args[0], func(s *editor.Session) error {
				n, err := resolveNode(s.Graph, args[1])
				if err != nil {
					return err
				}
				target, err := resolveNode(s.Graph, args[2])
				if err != nil {
					return err
				}
				p, err := resolveChoice(n, choice)
				if err != nil {
					return err
				}
				label = p.Label()
				return linkChoice(s, p, target)
			})
			if err != nil {
				return err
			}
			printSuccess("Linked %s %s %s", StyleChoice.Render(label), StyleDim.Render(iconArrow), args[2])
			return nil
		},
	}

	cmd.Flags().StringVarP(&choice, "choice", "c", "", "label of the choice to relink")
	return cmd
}
