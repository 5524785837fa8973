package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/argnoun/internal/config"
	"github.com/zjrosen/argnoun/internal/editor"
	"github.com/zjrosen/argnoun/internal/log"
	"github.com/zjrosen/argnoun/internal/playground"
	"github.com/zjrosen/argnoun/internal/tracing"
	"github.com/zjrosen/argnoun/internal/watcher"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground [FILE]",
	Short: "Try argument text objects interactively",
	Long: `Open FILE (or an empty buffer) in a small modal editor where via, daa, cia
and friends work with multiple cursors. ctrl+s writes FILE, ? shows all keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(_ *cobra.Command, args []string) error {
	var path, content string
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's file
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Info(log.CatUI, "new file", "path", path)
		case err != nil:
			return fmt.Errorf("reading %s: %w", path, err)
		default:
			content = string(data)
		}
	}

	pcfg := playgroundTracing(cfg)
	expander, provider, err := newExpander(pcfg)
	if err != nil {
		return err
	}
	defer shutdownTracing(provider)

	pc := playground.Config{
		Path:          path,
		Content:       content,
		ShowStatusBar: cfg.UI.ShowStatusBar,
		EditorOptions: []editor.Option{
			editor.WithExpander(expander),
			editor.WithMultiline(cfg.Window.Multiline),
			editor.WithTracer(provider.Tracer()),
		},
	}

	if path != "" && cfg.UI.WatchFile && fileExists(path) {
		w, err := watcher.New(watcher.DefaultConfig(path))
		if err != nil {
			return err
		}
		changes, err := w.Start()
		if err != nil {
			log.ErrorErr(log.CatUI, "file watching disabled", err, "path", path)
		} else {
			pc.Changes = changes
		}
		defer func() { _ = w.Stop() }()
	}

	p := tea.NewProgram(playground.New(pc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}

// playgroundTracing turns off the stdout exporter, which would write over
// the alternate screen.
func playgroundTracing(c config.Config) config.Config {
	if c.Tracing.Enabled && c.Tracing.Exporter == tracing.ExporterStdout {
		log.Warn(log.CatTrace, "stdout trace export is disabled in the playground")
		c.Tracing.Enabled = false
	}
	return c
}
