package main

import (
	"fmt"
	"os"

	"github.com/Serenacula/templative/pkg/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.StyleError.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
