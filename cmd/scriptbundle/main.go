package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/scriptbundle/scriptbundle/internal/cli"
)

var (
	// Version information, set via ldflags during build.
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debug().Err(err).Msg("scriptbundle exited with error")
		os.Exit(1)
	}
}
