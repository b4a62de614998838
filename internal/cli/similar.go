package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar <surface> <dirt>",
	Short: "List scenarios similar to a surface × dirt combination",
	Long: `List nearby scenarios with corpus coverage, ordered by similarity.
Useful when an exact combination has no documents.

Examples:
  suds similar outdoor ink
  suds similar carpet stain -n 5`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "max results")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	scenarios, err := eng.Similar(cmd.Context(), args[0], args[1], similarLimit)
	if err != nil {
		return err
	}
	if len(scenarios) == 0 {
		fmt.Println("No similar scenarios found.")
		return nil
	}

	t := defaultTheme
	fmt.Println(t.statusStyle().Render(fmt.Sprintf("Scenarios near %s × %s", args[0], args[1])))
	for _, sc := range scenarios {
		fmt.Printf("  %.1f  %s × %s (%s, %d docs)\n",
			sc.Similarity, humanize(sc.Surface), humanize(sc.Dirt), humanize(sc.Method), sc.DocumentCount)
	}
	return nil
}
