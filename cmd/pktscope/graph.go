package main

import (
	"context"
	"fmt"
	"strings"

	"pktscope-go/internal/fn"
	"pktscope-go/pkg/log"
	"pktscope-go/pkg/record"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/urfave/cli/v2"
)

// --- CLI Definition ---

var (
	graphCommand = &cli.Command{
		Name:      "graph",
		Usage:     "render journaled conversations as a graph image",
		UsageText: "graph [command options]",
		Description: "Aggregates the most recent journal entries into src -> dst " +
			"conversations and renders them with graphviz. The output format " +
			"follows the file extension: .png (default), .svg or .dot.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "store",
				Usage: "path to the capture journal `PATH`",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of journal entries to aggregate `NUMBER`",
				Value:   1000,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file `PATH`",
				Value:   "flows.png",
			},
		},
		Action: graphCmd,
	}
)

func graphCmd(c *cli.Context) error {
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

	flows := aggregateFlows(recs)
	if len(flows) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	out := c.String("out")
	if err := renderFlowGraph(flows, out); err != nil {
		return cli.Exit(fmt.Sprintf("Error rendering graph: %v", err), 1)
	}
	fmt.Printf("Wrote %s (%d conversations).\n", out, len(flows))
	return nil
}

// --- Conversation aggregation ---

type flow struct {
	src, dst string
	frames   int
	bytes    int
}

// aggregateFlows folds records into directed src -> dst conversations,
// in first-seen order. Records without network-layer endpoints are
// skipped.
func aggregateFlows(recs []record.Record) []flow {
	var flows []flow
	index := make(map[string]int)

	for _, rec := range recs {
		if rec.Src == "" || rec.Dst == "" {
			continue
		}
		key := rec.Src + "->" + rec.Dst
		i, exists := index[key]
		if !exists {
			i = len(flows)
			index[key] = i
			flows = append(flows, flow{src: rec.Src, dst: rec.Dst})
		}
		flows[i].frames++
		flows[i].bytes += rec.Length
	}
	return flows
}

// --- Rendering ---

// buildFlowGraph creates a graphviz graph of the conversations.
func buildFlowGraph(flows []flow) (*graphviz.Graphviz, *cgraph.Graph, error) {
	g, err := graphviz.New(context.Background())
	if err != nil {
		return nil, nil, err
	}
	graph, err := g.Graph(graphviz.WithDirectedType(graphviz.Directed))
	if err != nil {
		return nil, nil, err
	}

	graph.SetRankDir(cgraph.LRRank) // Left to right layout
	graph.SetLabel("Traffic conversations")

	// Create a legend subgraph
	legend, err := graph.CreateSubGraphByName("cluster_legend")
	if err != nil {
		return nil, nil, err
	}
	legend.SetLabel("Legend")
	legend.SetBackgroundColor("lightgrey")

	oneWay, err := legend.CreateNodeByName("One way")
	if err != nil {
		return nil, nil, err
	}
	oneWay.SetShape(cgraph.PlainTextShape)
	oneWay.SetLabel("→ one-way traffic")

	bothWays, err := legend.CreateNodeByName("Both ways")
	if err != nil {
		return nil, nil, err
	}
	bothWays.SetShape(cgraph.PlainTextShape)
	bothWays.SetLabel("⟷ traffic in both directions")

	// Map to keep track of endpoints and their graphviz node objects
	nodes := make(map[string]*cgraph.Node)
	endpoint := func(addr string) (*cgraph.Node, error) {
		if node, exists := nodes[addr]; exists {
			return node, nil
		}
		node, err := graph.CreateNodeByName(addr)
		if err != nil {
			return nil, err
		}
		node.SetShape(cgraph.BoxShape)
		node.SetStyle(cgraph.FilledNodeStyle)
		node.SetFillColor("lightblue")
		nodes[addr] = node
		return node, nil
	}

	reverse := make(map[string]int)
	for i, f := range flows {
		reverse[f.src+"->"+f.dst] = i
	}

	rendered := make(map[string]bool)

	// First pass: merge conversations seen in both directions
	for _, f := range flows {
		key := f.src + "->" + f.dst
		reverseKey := f.dst + "->" + f.src
		j, exists := reverse[reverseKey]
		if !exists || rendered[key] || rendered[reverseKey] {
			continue
		}

		from, err := endpoint(f.src)
		if err != nil {
			return nil, nil, err
		}
		to, err := endpoint(f.dst)
		if err != nil {
			return nil, nil, err
		}
		edge, err := graph.CreateEdgeByName("bidir_"+f.src+"_"+f.dst, from, to)
		if err != nil {
			return nil, nil, err
		}
		back := flows[j]
		edge.SetDir(cgraph.BothDir)
		edge.SetColor("green")
		edge.SetPenWidth(2.0)
		edge.SetLabel(fmt.Sprintf("%d frames, %d bytes", f.frames+back.frames, f.bytes+back.bytes))

		rendered[key] = true
		rendered[reverseKey] = true
	}

	// Second pass: one-way conversations
	for _, f := range flows {
		key := f.src + "->" + f.dst
		if rendered[key] {
			continue
		}

		from, err := endpoint(f.src)
		if err != nil {
			return nil, nil, err
		}
		to, err := endpoint(f.dst)
		if err != nil {
			return nil, nil, err
		}
		edge, err := graph.CreateEdgeByName("flow_"+f.src+"_"+f.dst, from, to)
		if err != nil {
			return nil, nil, err
		}
		edge.SetColor("blue")
		edge.SetPenWidth(1.5)
		edge.SetLabel(fmt.Sprintf("%d frames, %d bytes", f.frames, f.bytes))

		rendered[key] = true
	}

	return g, graph, nil
}

// renderFlowGraph renders the conversations to a file.
func renderFlowGraph(flows []flow, outputPath string) error {
	g, graph, err := buildFlowGraph(flows)
	if err != nil {
		return err
	}

	defer func() {
		if err := graph.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close graph")
		}
		g.Close()
	}()

	// Determine format based on file extension
	format := graphviz.PNG // default
	if strings.HasSuffix(outputPath, ".svg") {
		format = graphviz.SVG
	} else if strings.HasSuffix(outputPath, ".dot") {
		format = graphviz.XDOT
	}

	return g.RenderFilename(context.Background(), graph, format, outputPath)
}
