package stencil

import (
	"embed"
	"io/fs"
	"os"

	"github.com/arthur-debert/stencil/pkg/cobrax/topics"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// installTopics serves the embedded help topics through `stencil help`.
// Markdown is styled only when stdout is a terminal.
func installTopics(rootCmd *cobra.Command) error {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}

	var renderer topics.Renderer = &topics.PlainRenderer{}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		renderer = topics.NewGlamourRenderer()
	}

	tm, err := topics.Load(sub, topics.Options{Renderer: renderer})
	if err != nil {
		return err
	}
	tm.Install(rootCmd)
	return nil
}
