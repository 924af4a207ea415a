package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pktscope-go/internal/fn"
	"pktscope-go/pkg/api"
	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/dissect"
	"pktscope-go/pkg/filter"
	"pktscope-go/pkg/hexdump"
	"pktscope-go/pkg/log"
	"pktscope-go/pkg/record"
	"pktscope-go/pkg/strbuf"

	"github.com/urfave/cli/v2"
)

// --- CLI Definition ---

var (
	summarizeCommand = &cli.Command{
		Name:      "summarize",
		Usage:     "print one-line summaries of captured frames",
		UsageText: "summarize [command options] [file|-]",
		Description: `Reads frames from a file or stdin and prints the protocol, length
and info column of each. With --format hex (the default) every
non-empty input line is one frame written as hex digits; spaces,
tabs and colons between digits are ignored and lines starting with
'#' are skipped. With --format bin the whole input is one raw frame.
Frames can be narrowed with --proto, --src and --dst; frames not
matching every given constraint are skipped silently.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "input format, hex or bin",
				Value:   "hex",
			},
			&cli.StringSliceFlag{
				Name:  "proto",
				Usage: "keep only frames with protocol tag `PROTO` (repeatable)",
			},
			&cli.StringFlag{
				Name:  "src",
				Usage: "keep only frames from address `IP`",
			},
			&cli.StringFlag{
				Name:  "dst",
				Usage: "keep only frames to address `IP`",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "append summaries to the capture journal at `PATH`",
			},
			&cli.StringFlag{
				Name:  "api",
				Usage: "serve the debug API on `ADDR` while summarizing",
			},
			&cli.BoolFlag{
				Name:  "hexdump",
				Usage: "echo a hex dump of each frame under its summary",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (trace, debug, info, warn, error)",
			},
		},
		Action: summarizeCmd,
	}
)

func summarizeCmd(c *cli.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading configuration: %v", err), 1)
	}
	if err := log.SetLevel(fn.Or(c.String("log-level"), cfg.LogLevel)); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	format := c.String("format")
	if format != "hex" && format != "bin" {
		return cli.Exit(fmt.Sprintf("Error: unknown input format %q, use hex or bin", format), 1)
	}

	flt, err := buildFilter(c.StringSlice("proto"), c.String("src"), c.String("dst"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	in, err := openInput(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer in.Close()

	var store *record.Store
	if path := fn.Or(c.String("store"), cfg.StorePath); path != "" {
		store, err = record.Open(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error opening capture journal: %v", err), 1)
		}
		defer store.Close()
	}

	// Close the journal on interrupt so the WAL gets checkpointed.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %s, shutting down.", sig)
		if store != nil {
			store.Close()
		}
		os.Exit(0)
	}()

	if addr := fn.Or(c.String("api"), cfg.APIListenAddr); addr != "" {
		srv := api.New(dissect.PoolStats, store)
		go srv.Run(addr)
		log.Printf("debug API listening on %s", addr)
	}

	pool := arena.NewPool(cfg.ChunkSize)
	echoDump := c.Bool("hexdump")

	process := func(num int, frame []byte) {
		a := pool.Get()
		defer pool.Put(a)

		s, err := dissect.Summarize(a, frame)
		if err != nil {
			log.Warn().Err(err).Int("frame", num).Msg("skipping frame")
			return
		}
		if flt != nil && !flt.Allow(s.Src, s.Dst, s.Protocol) {
			return
		}

		info := s.Info
		if cfg.MaxInfoLen > 0 && len(info) > cfg.MaxInfoLen {
			info = info[:cfg.MaxInfoLen]
		}
		fmt.Printf("%4d  %-6s %5d  %s\n", num, s.Protocol, s.Length, info)

		if echoDump {
			b := strbuf.New(a, "")
			hexdump.Append(b, 0, frame)
			fmt.Print(b.String())
		}

		if store != nil {
			rec := record.Record{Length: s.Length, Protocol: s.Protocol, Info: s.Info}
			if s.Src != nil {
				rec.Src = s.Src.String()
			}
			if s.Dst != nil {
				rec.Dst = s.Dst.String()
			}
			if cfg.StoreRaw {
				rec.Raw = frame
			}
			if err := store.Append(rec); err != nil {
				log.Warn().Err(err).Int("frame", num).Msg("failed to journal frame")
			}
		}
	}

	if format == "bin" {
		frame, err := io.ReadAll(in)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
		}
		process(1, frame)
		return nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	num := 0
	for scanner.Scan() {
		frame, ok, err := parseHexLine(scanner.Text())
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error on input line %d: %v", num+1, err), 1)
		}
		if !ok {
			continue
		}
		num++
		process(num, frame)
	}
	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("Error reading input: %v", err), 1)
	}
	return nil
}

// openInput returns stdin for "" or "-", otherwise the named file.
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// parseHexLine decodes one line of hex digits into frame bytes.
// Blank lines and '#' comments report ok=false.
func parseHexLine(line string) ([]byte, bool, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':':
			return -1
		}
		return r
	}, line)
	if cleaned == "" || strings.HasPrefix(cleaned, "#") {
		return nil, false, nil
	}
	frame, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, false, fmt.Errorf("invalid hex frame: %w", err)
	}
	return frame, true, nil
}

// buildFilter turns the --proto/--src/--dst flags into filter rules.
// Returns nil when no constraint was given so the hot path can skip
// the rule walk entirely.
func buildFilter(protos []string, src, dst string) (*filter.Filter, error) {
	if len(protos) == 0 && src == "" && dst == "" {
		return nil, nil
	}

	var srcIP, dstIP net.IP
	if src != "" {
		if srcIP = net.ParseIP(src); srcIP == nil {
			return nil, fmt.Errorf("invalid --src address %q", src)
		}
	}
	if dst != "" {
		if dstIP = net.ParseIP(dst); dstIP == nil {
			return nil, fmt.Errorf("invalid --dst address %q", dst)
		}
	}

	flt := filter.New()
	if len(protos) == 0 {
		flt.Add(filter.Rule{Src: srcIP, Dst: dstIP, Allow: true})
	}
	for _, proto := range protos {
		flt.Add(filter.Rule{Src: srcIP, Dst: dstIP, Protocol: proto, Allow: true})
	}
	flt.Add(filter.Rule{Allow: false})
	return flt, nil
}
