package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudslabs/suds/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus totals and planner metrics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := eng.CorpusStats(cmd.Context())
	if err != nil {
		return err
	}

	t := defaultTheme
	fmt.Println(t.statusStyle().Render("Corpus"))
	fmt.Printf("  Documents:    %d\n", stats.Documents)
	fmt.Printf("  Steps:        %d\n", stats.Steps)
	fmt.Printf("  Tools:        %d\n", stats.Tools)
	fmt.Printf("  Combinations: %d\n", stats.Combinations)

	if len(stats.BySurface) > 0 {
		fmt.Println("\n  By surface:")
		for _, sc := range stats.BySurface {
			fmt.Printf("    %-18s %d\n", humanize(sc.Surface), sc.Count)
		}
	}
	if len(stats.ByDirt) > 0 {
		fmt.Println("\n  By dirt type:")
		for _, dc := range stats.ByDirt {
			fmt.Printf("    %-18s %d\n", humanize(dc.Dirt), dc.Count)
		}
	}

	snap := eng.Metrics().Snapshot()
	fmt.Println("\n" + t.statusStyle().Render("Planner metrics"))
	fmt.Printf("  Uptime: %.0fs\n", snap.UptimeSeconds)
	printOp := func(name string, op *metrics.OperationSnapshot) {
		if op == nil {
			return
		}
		fmt.Printf("  %-14s count %d, avg %.1fms, min %dms, max %dms\n",
			name, op.Count, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
	}
	printOp("plan", snap.Plan)
	printOp("normalize", snap.Normalize)
	printOp("select_method", snap.SelectMethod)
	printOp("fetch_steps", snap.FetchSteps)
	printOp("fetch_tools", snap.FetchTools)
	printOp("validate", snap.Validate)
	printOp("fallback", snap.Fallback)
	printOp("narrate", snap.Narrate)
	return nil
}
