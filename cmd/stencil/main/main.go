package main

import (
	"os"

	"github.com/arthur-debert/stencil/cmd/stencil"
)

func main() {
	rootCmd := stencil.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !stencil.IsReported(err) {
			stencil.PrintError(os.Stderr, err)
		}
		os.Exit(stencil.ExitCode(err))
	}
}
