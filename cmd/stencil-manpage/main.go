package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/stencil/cmd/stencil"
)

func main() {
	rootCmd := stencil.NewRootCmd()

	err := doc.GenMan(rootCmd, stencil.ManHeader(), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
