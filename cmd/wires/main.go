package main

import (
	"fmt"
	"os"

	app "github.com/barooo/wires/internal"
	"github.com/barooo/wires/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApp(workDir)

	err = cli.Execute()
	_ = application.Close()
	if err != nil {
		os.Exit(1)
	}
}
