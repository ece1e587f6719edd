// Command analyze prints quick, human-readable heuristics about the built-in
// map and the map files of a directory. For each map it summarizes link
// counts, one-way links, strongly connected groups of locations, and the
// smallest energy budget needed to order a fleet between every pair of
// locations. The energy matrix can also be exported as CSV.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/wricardo/fleetreach/game/config"
	"github.com/wricardo/fleetreach/game/engine"
)

// Analysis summarizes one map
type Analysis struct {
	MapID      string
	Name       string
	Catalog    *engine.Catalog
	Links      int
	OneWay     []engine.Edge
	Components [][]int
	// MinEnergies[src][dst] as returned by Catalog.MinimumEnergies
	MinEnergies [][]uint64
	// Crowding[id] counts locations within one default-speed turn of id
	Crowding []int
}

// EnergyRecord is one cell of the minimum-energy matrix in CSV form
type EnergyRecord struct {
	MapID     string `csv:"map_id"`
	From      int    `csv:"from"`
	FromName  string `csv:"from_name"`
	To        int    `csv:"to"`
	ToName    string `csv:"to_name"`
	Distance  uint64 `csv:"distance"`
	Reachable bool   `csv:"reachable"`
	MinEnergy uint64 `csv:"min_energy"`
	InBudget  bool   `csv:"in_budget"`
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Summarize reachability properties of the planner maps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "maps",
				Usage:   "directory containing map files",
				Sources: cli.EnvVars("MAPS_DIR"),
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "write the minimum-energy matrix of every map to this file",
			},
			&cli.BoolFlag{
				Name:  "matrix",
				Usage: "print the minimum-energy matrix",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("maps-dir"))
			if err != nil {
				return err
			}

			analyses, err := analyzeMaps(ctx, manager, cmd.Args().Slice())
			if err != nil {
				return err
			}

			for _, a := range analyses {
				printAnalysis(os.Stdout, a, cmd.Bool("matrix"))
			}

			if path := cmd.String("csv"); path != "" {
				if err := writeCSV(path, analyses); err != nil {
					return err
				}
				fmt.Printf("\nWrote minimum energies to %s\n", path)
			}
			return nil
		},
	}
}

// analyzeMaps analyses the named maps, or every listed map when ids is
// empty, concurrently. Results keep the order of ids.
func analyzeMaps(ctx context.Context, manager *config.Manager, ids []string) ([]*Analysis, error) {
	if len(ids) == 0 {
		maps, err := manager.ListMaps()
		if err != nil {
			return nil, err
		}
		for _, m := range maps {
			ids = append(ids, m.MapID)
		}
	}

	analyses := make([]*Analysis, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			catalog, err := manager.Catalog(id)
			if err != nil {
				return fmt.Errorf("map %s: %w", id, err)
			}
			analyses[i] = analyzeCatalog(id, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return analyses, nil
}

// analyzeCatalog computes every summary of one catalog
func analyzeCatalog(id string, catalog *engine.Catalog) *Analysis {
	a := &Analysis{
		MapID:      id,
		Name:       catalog.CatalogName(),
		Catalog:    catalog,
		Links:      len(catalog.Edges()),
		OneWay:     catalog.AsymmetricEdges(),
		Components: stronglyConnected(catalog),
	}

	a.MinEnergies = make([][]uint64, catalog.Count())
	a.Crowding = make([]int, catalog.Count())
	for src := 0; src < catalog.Count(); src++ {
		a.MinEnergies[src] = catalog.MinimumEnergies(src)
		// The location itself is always within the radius
		a.Crowding[src] = engine.CountLocationsWithin(catalog, catalog.Position(src), uint64(engine.DefaultSpeed)) - 1
	}

	return a
}

// stronglyConnected groups locations that can all be reached from each
// other by following links. Groups are ordered by size, then by first id.
func stronglyConnected(catalog *engine.Catalog) [][]int {
	g := simple.NewDirectedGraph()
	for id := 0; id < catalog.Count(); id++ {
		g.AddNode(simple.Node(id))
	}
	for _, e := range catalog.Edges() {
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}

	var components [][]int
	for _, nodes := range topo.TarjanSCC(g) {
		ids := make([]int, 0, len(nodes))
		for _, n := range nodes {
			ids = append(ids, int(n.ID()))
		}
		sort.Ints(ids)
		components = append(components, ids)
	}

	sort.Slice(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})
	return components
}

// budgetStats counts ordered pairs of distinct locations by how they can be reached
func (a *Analysis) budgetStats() (inBudget, overBudget, unreachable int) {
	for src, row := range a.MinEnergies {
		for dst, need := range row {
			switch {
			case src == dst:
			case need == engine.UnreachableEnergy:
				unreachable++
			case need > uint64(engine.MaxEnergy):
				overBudget++
			default:
				inBudget++
			}
		}
	}
	return inBudget, overBudget, unreachable
}

func printAnalysis(w io.Writer, a *Analysis, matrix bool) {
	c := a.Catalog

	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.MapID)
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Locations: %d\n", c.Count())
	fmt.Fprintf(w, "Links: %d\n", a.Links)

	if len(a.OneWay) > 0 {
		fmt.Fprintf(w, "⚠️  %d one-way links:\n", len(a.OneWay))
		for _, e := range a.OneWay {
			fmt.Fprintf(w, "   %d (%s) -> %d (%s)\n", e.From, c.Name(e.From), e.To, c.Name(e.To))
		}
	} else {
		fmt.Fprintf(w, "✅ All links are two-way\n")
	}

	if len(a.Components) == 1 {
		fmt.Fprintf(w, "✅ Every location can reach every other by links\n")
	} else {
		fmt.Fprintf(w, "⚠️  %d strongly connected groups:\n", len(a.Components))
		for _, comp := range a.Components {
			fmt.Fprintf(w, "   %v\n", comp)
		}
	}

	inBudget, overBudget, unreachable := a.budgetStats()
	fmt.Fprintf(w, "Ordered pairs within energy %d: %d\n", engine.MaxEnergy, inBudget)
	if overBudget > 0 {
		fmt.Fprintf(w, "Ordered pairs needing more than %d: %d\n", engine.MaxEnergy, overBudget)
	}
	if unreachable > 0 {
		fmt.Fprintf(w, "⚠️  Ordered pairs unreachable at any energy: %d\n", unreachable)
	}

	crowded, lonely := 0, 0
	for id, n := range a.Crowding {
		if n > a.Crowding[crowded] {
			crowded = id
		}
		if n < a.Crowding[lonely] {
			lonely = id
		}
	}
	fmt.Fprintf(w, "Most neighbors within %d: %d (%s) with %d\n",
		engine.DefaultSpeed, crowded, c.Name(crowded), a.Crowding[crowded])
	fmt.Fprintf(w, "Fewest neighbors within %d: %d (%s) with %d\n",
		engine.DefaultSpeed, lonely, c.Name(lonely), a.Crowding[lonely])

	if matrix {
		fmt.Fprintf(w, "Minimum energy (row = origin, '-' = unreachable):\n")
		for _, row := range a.MinEnergies {
			for dst, need := range row {
				if dst > 0 {
					fmt.Fprint(w, " ")
				}
				if need == engine.UnreachableEnergy {
					fmt.Fprintf(w, "%4s", "-")
				} else {
					fmt.Fprintf(w, "%4d", need)
				}
			}
			fmt.Fprintln(w)
		}
	}
}

// energyRecords flattens the minimum-energy matrix of an analysis
func energyRecords(a *Analysis) []*EnergyRecord {
	c := a.Catalog
	records := make([]*EnergyRecord, 0, c.Count()*c.Count())
	for src, row := range a.MinEnergies {
		for dst, need := range row {
			r := &EnergyRecord{
				MapID:    a.MapID,
				From:     src,
				FromName: c.Name(src),
				To:       dst,
				ToName:   c.Name(dst),
				Distance: c.DistanceBetween(src, dst),
			}
			if need != engine.UnreachableEnergy {
				r.Reachable = true
				r.MinEnergy = need
				r.InBudget = need <= uint64(engine.MaxEnergy)
			}
			records = append(records, r)
		}
	}
	return records
}

func writeCSV(path string, analyses []*Analysis) error {
	var records []*EnergyRecord
	for _, a := range analyses {
		records = append(records, energyRecords(a)...)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
