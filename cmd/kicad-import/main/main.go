package main

import (
	"fmt"
	"os"

	kicadimport "github.com/KJ7LNW/Import-LIB-KiCad-Plugin/cmd/kicad-import"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/style"
)

func main() {
	rootCmd := kicadimport.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := style.NewRenderer(style.FormatAuto, os.Stderr)
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
