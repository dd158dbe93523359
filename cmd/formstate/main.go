package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// version is assigned at build time with ldflags.
var version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		if errors.Is(err, errInvalidForm) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, color.RedString("formstate: %v", err))
		os.Exit(1)
	}
}
