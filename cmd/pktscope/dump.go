package main

import (
	"fmt"
	"io"

	"pktscope-go/pkg/hexdump"

	"github.com/urfave/cli/v2"
)

// --- CLI Definition ---

var (
	dumpCommand = &cli.Command{
		Name:      "dump",
		Usage:     "print a hex dump of a file or stdin",
		UsageText: "dump [file|-]",
		Action:    dumpCmd,
	}
)

func dumpCmd(c *cli.Context) error {
	in, err := openInput(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}
	fmt.Print(hexdump.Dump(data))
	return nil
}
