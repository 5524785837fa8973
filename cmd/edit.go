package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/argnoun/internal/editor"
	"github.com/zjrosen/argnoun/internal/log"
)

type editOptions struct {
	keys      string
	at        []string
	offsets   []int
	write     bool
	diff      bool
	register  bool
	multiline bool
	color     string
}

var editOpts editOptions

var editCmd = &cobra.Command{
	Use:   "edit FILE|-",
	Short: "Apply argument text-object keys to a file",
	Long: `Place a cursor at each --at/--offset, run an editor key sequence, and print
the resulting buffer.

Keys follow vim: [count]{v,d,c,y}{i,a}a selects, deletes, changes or yanks
the inner or outer argument; u and <c-r> undo and redo; text typed after c
is inserted until <esc>, with <cr>, <tab> and <bs> for enter, tab and
backspace.`,
	Example: `  argnoun edit main.py --at 4:12 --keys daa --diff
  argnoun edit main.py --at 4:12 --at 5:12 --keys 'cianame<esc>' --write
  argnoun edit main.py --at 4:12 --keys yaa --register`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	f := editCmd.Flags()
	f.StringVarP(&editOpts.keys, "keys", "k", "", "key sequence to run (required)")
	f.StringArrayVar(&editOpts.at, "at", nil, "cursor as LINE:COL (repeatable)")
	f.IntSliceVar(&editOpts.offsets, "offset", nil, "cursor as a byte offset (repeatable)")
	f.BoolVarP(&editOpts.write, "write", "w", false, "write the result back to FILE")
	f.BoolVar(&editOpts.diff, "diff", false, "print a unified diff instead of the buffer")
	f.BoolVar(&editOpts.register, "register", false, "print the register instead of the buffer")
	f.BoolVar(&editOpts.multiline, "multiline", true, "scan neighbouring lines (default from window.multiline)")
	f.StringVar(&editOpts.color, "color", "auto", "colorize diff output: auto, always, or never")
	_ = editCmd.MarkFlagRequired("keys")
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if editOpts.write && path == "-" {
		return errors.New("--write needs a file, not stdin")
	}
	if editOpts.keys == "" {
		return errors.New("--keys must not be empty")
	}

	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	pts, err := cursorOffsets(content, editOpts.at, editOpts.offsets)
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
		multiline = editOpts.multiline
	}

	m := editor.New(content,
		editor.WithExpander(expander),
		editor.WithMultiline(multiline),
		editor.WithTracer(provider.Tracer()),
	)
	m.SetCursors(pts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.HandleKeys(ctx, editOpts.keys); err != nil {
		return fmt.Errorf("running keys %q: %w", editOpts.keys, err)
	}
	log.Debug(log.CatEditor, "edit applied", "path", path, "keys", editOpts.keys,
		"cursors", len(pts), "changed", m.Content() != content)

	out := cmd.OutOrStdout()
	if editOpts.write {
		if err := writeBack(path, m.Content()); err != nil {
			return err
		}
	}

	switch {
	case editOpts.register:
		_, err = io.WriteString(out, m.Register())
	case editOpts.diff:
		err = writeUnifiedDiff(out, path, content, m.Content(), newStyles(editOpts.color))
	case editOpts.write:
		_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(m.Content()))
	default:
		_, err = io.WriteString(out, m.Content())
	}
	return err
}

// writeBack replaces path's content, keeping its permissions.
func writeBack(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
