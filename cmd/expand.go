package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/expand"
)

type expandOptions struct {
	at        []string
	offsets   []int
	outer     bool
	repeat    int
	multiline bool
	format    string
	color     string
}

var expandOpts expandOptions

var expandCmd = &cobra.Command{
	Use:   "expand FILE|-",
	Short: "Print the argument under each cursor",
	Long: `Resolve the function-call argument around each cursor and print its range.

Cursors are given as 1-indexed LINE:COL positions (--at, columns count
grapheme clusters) or byte offsets (--offset). Every cursor is expanded
independently; a cursor outside any argument list is reported as not found.`,
	Example: `  argnoun expand main.py --at 12:18
  argnoun expand main.py --at 3:9 --at 4:9 --outer --format json
  cat call.rb | argnoun expand - --offset 14 --repeat 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	f := expandCmd.Flags()
	f.StringArrayVar(&expandOpts.at, "at", nil, "cursor as LINE:COL (repeatable)")
	f.IntSliceVar(&expandOpts.offsets, "offset", nil, "cursor as a byte offset (repeatable)")
	f.BoolVarP(&expandOpts.outer, "outer", "a", false, "include the argument's separator")
	f.IntVarP(&expandOpts.repeat, "repeat", "n", 1, "expand this many times from each cursor")
	f.BoolVar(&expandOpts.multiline, "multiline", true, "scan neighbouring lines (default from window.multiline)")
	f.StringVarP(&expandOpts.format, "format", "f", "text", "output format: text, json, or yaml")
	f.StringVar(&expandOpts.color, "color", "auto", "colorize text output: auto, always, or never")
}

// expandResult is one cursor's outcome.
type expandResult struct {
	Cursor string `json:"cursor" yaml:"cursor"`
	Found  bool   `json:"found" yaml:"found"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Range  string `json:"range,omitempty" yaml:"range,omitempty"`
	Text   string `json:"text" yaml:"text"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	switch expandOpts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q (want text, json, or yaml)", expandOpts.format)
	}

	content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	pts, err := cursorOffsets(content, expandOpts.at, expandOpts.offsets)
	if err != nil {
		return err
	}

	expander, provider, err := newExpander(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracing(provider)

	multiline := cfg.Window.Multiline
	if cmd.Flags().Changed("multiline") {
		multiline = expandOpts.multiline
	}

	results := expandCursors(cmd.Context(), expander, content, pts, expand.Options{
		Outer:     expandOpts.outer,
		Repeat:    expandOpts.repeat,
		Multiline: multiline,
	})

	out := cmd.OutOrStdout()
	switch expandOpts.format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(results); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return encoder.Close()
	default:
		return writeExpandText(out, results, newStyles(expandOpts.color))
	}
}

// expandCursors expands each cursor independently and reports them in input
// order. A cursor is found when any pass resolved an argument, even an empty
// one.
func expandCursors(ctx context.Context, e *expand.Expander, content string, pts []int, opts expand.Options) []expandResult {
	if ctx == nil {
		ctx = context.Background()
	}
	buf := buffer.NewStringBuffer(content)
	pass := opts
	pass.Repeat = 1

	results := make([]expandResult, len(pts))
	for i, pt := range pts {
		r, found := buffer.Cursor(pt), false
		for n := 0; n < max(1, opts.Repeat); n++ {
			var ok bool
			r, ok = e.ExpandRegion(ctx, buf, r, pass)
			found = found || ok
		}

		start, end := r.Ordered()
		res := expandResult{
			Cursor: buffer.PositionOf(content, pt).String(),
			Found:  found,
			Start:  start,
			End:    end,
		}
		if found {
			res.Range = buffer.PositionOf(content, start).String() + "-" + buffer.PositionOf(content, end).String()
			res.Text = content[start:end]
		}
		results[i] = res
	}
	return results
}

// styles holds color formatters for text output.
type styles struct {
	cursor  *color.Color
	rng     *color.Color
	text    *color.Color
	missing *color.Color
	added   *color.Color
	deleted *color.Color
	hunk    *color.Color
}

// newStyles creates formatters for mode "auto", "always" or "never". Auto
// follows fatih/color's terminal and NO_COLOR detection.
func newStyles(mode string) *styles {
	s := &styles{
		cursor:  color.New(color.Faint),
		rng:     color.New(color.FgHiBlue),
		text:    color.New(color.FgYellow),
		missing: color.New(color.FgHiBlack),
		added:   color.New(color.FgGreen),
		deleted: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
	}

	enabled := !color.NoColor
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	}
	for _, c := range []*color.Color{s.cursor, s.rng, s.text, s.missing, s.added, s.deleted, s.hunk} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func writeExpandText(w io.Writer, results []expandResult, s *styles) error {
	for _, r := range results {
		var err error
		if r.Found {
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", s.cursor.Sprint(r.Cursor), s.rng.Sprint(r.Range), s.text.Sprintf("%q", r.Text))
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\n", s.cursor.Sprint(r.Cursor), s.missing.Sprint("no argument"))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
