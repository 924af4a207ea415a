package main

import (
	"fmt"
	"os"

	"pktscope-go/pkg/log"

	"github.com/urfave/cli/v2"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "pktscope",
		Usage:   "summarize captured frames through arena-scoped dissection",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Commands: []*cli.Command{
			summarizeCommand,
			recordsCommand,
			graphCommand,
			dumpCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}
