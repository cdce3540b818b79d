package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/narrative/pkg/cache"
	"github.com/matzehuels/narrative/pkg/codec"
	"github.com/matzehuels/narrative/pkg/dialogue"
	errs "github.com/matzehuels/narrative/pkg/errors"
	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "dot"
	detailed bool     // show kind and short ID under node text
	pinned   bool     // keep canvas positions
	noCache  bool     // bypass the render cache
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:               "render <name>",
		Short:             "Render a narrative as a node-link diagram",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRecordNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node kind and short ID")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "keep nodes at their canvas positions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always re-render")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(nodelink.FormatSVG)}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(nodelink.Formats(), f) {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(nodelink.Formats(), ", "))
		}
	}
	return nil
}

// outputPath picks the file for one format. A single format writes to
// output as given; several formats share output as a base path.
func outputPath(name, output, format string, multiple bool) string {
	if output == "" {
		return sanitizeFileName(name) + "." + format
	}
	if !multiple {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

// sanitizeFileName replaces characters that are awkward in file names.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func (c *CLI) runRender(ctx context.Context, name string, opts *renderOpts) error {
	s, done, err := c.openSession(ctx, name)
	if err != nil {
		return err
	}
	defer done()

	hash, err := graphHash(s.Graph)
	if err != nil {
		return err
	}
	ch, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	prog := newProgress(loggerFromContext(ctx))
	multiple := len(opts.formats) > 1
	for _, format := range opts.formats {
		data, cached, err := renderCached(ctx, ch, s.Graph, hash, format, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := outputPath(name, opts.output, format, multiple)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		printFile(path)
		printStats(s.Graph.NodeCount()-1, s.Graph.EdgeCount(), cacheStatus(cached))
	}
	prog.done("Rendered " + name)
	return nil
}

// graphHash identifies the loaded graph's content for cache keys.
func graphHash(g *dialogue.Graph) (string, error) {
	rec, err := codec.Encode(g)
	if err != nil {
		return "", err
	}
	data, err := graph.Marshal(rec, graph.FormatJSON)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

func renderCached(ctx context.Context, ch cache.Cache, g *dialogue.Graph, hash, format string, opts *renderOpts) ([]byte, bool, error) {
	key := cache.ArtifactKey(hash, cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: opts.detailed,
		Pinned:   opts.pinned,
	})
	if data, ok, err := ch.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var spinner *Spinner
	if format != string(nodelink.FormatDOT) {
		spinner = newSpinnerWithContext(ctx, "Rendering "+format+"...")
		spinner.Start()
	}
	data, err := nodelink.Render(ctx, g, nodelink.Format(format), nodelink.Options{
		Detailed: opts.detailed,
		Pinned:   opts.pinned,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, false, err
	}

	if err := ch.Set(ctx, key, data, 0); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "err", err)
	}
	return data, false, nil
}
