package main

import (
	"encoding/json"
	"fmt"
	"time"

	"pktscope-go/internal/fn"
	"pktscope-go/pkg/record"

	"github.com/urfave/cli/v2"
)

// --- CLI Definition ---

var (
	recordsCommand = &cli.Command{
		Name:      "records",
		Usage:     "print recent entries from the capture journal",
		UsageText: "records [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "store",
				Usage: "path to the capture journal `PATH`",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of entries `NUMBER`",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output records as JSON lines instead of formatted text",
			},
		},
		Action: recordsCmd,
	}
)

func recordsCmd(c *cli.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}

	path := fn.Or(c.String("store"), cfg.StorePath)
	if path == "" {
		return cli.Exit("Error: --store is required (or set store_path in pktscope.yaml)", 1)
	}
	count := c.Int("count")
	if count <= 0 {
		return cli.Exit("Error: --count (-n) must be a positive number.", 1)
	}

	store, err := record.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error opening capture journal: %v", err), 1)
	}
	defer store.Close()

	recs, err := store.LastN(count)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error retrieving records: %v", err), 1)
	}
	if len(recs) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	asJSON := c.Bool("json")
	for _, rec := range recs {
		if asJSON {
			line, err := json.Marshal(rec)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error encoding record %d: %v", rec.ID, err), 1)
			}
			fmt.Println(string(line))
			continue
		}
		info := rec.Info
		if cfg.MaxInfoLen > 0 && len(info) > cfg.MaxInfoLen {
			info = info[:cfg.MaxInfoLen]
		}
		fmt.Printf("%6d  %s  %-6s %5d  %s\n",
			rec.ID, rec.CapturedAt.Format(time.RFC3339), rec.Protocol, rec.Length, info)
	}
	return nil
}
