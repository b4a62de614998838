package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var methodsCmd = &cobra.Command{
	Use:   "methods <surface> <dirt>",
	Short: "Rank corpus methods for a scenario, best first",
	Long: `Rank the cleaning methods the corpus supports for a surface × dirt
combination, without planning a full workflow.

Examples:
  suds methods carpet stain
  suds methods --demo sofa "pet hair"`,
	Args: cobra.ExactArgs(2),
	RunE: runMethods,
}

func runMethods(cmd *cobra.Command, args []string) error {
	candidates, err := eng.RankMethods(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("No methods found for this combination.")
		return nil
	}

	t := defaultTheme
	fmt.Println(t.statusStyle().Render(fmt.Sprintf("Methods for %s × %s", args[0], args[1])))
	for i, c := range candidates {
		fmt.Printf("  %d. %-16s score %.2f\n", i+1, humanize(c.Method), c.Score)
	}
	return nil
}
