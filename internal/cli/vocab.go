package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudslabs/suds/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the canonical cleaning vocabulary",
	Long: `Print the canonical surface types, dirt types, and cleaning methods the
planner understands. Free-text queries and request fields are normalized
onto these values.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := defaultTheme
		fmt.Println(t.statusStyle().Render("Surfaces"))
		fmt.Println("  " + strings.Join(vocab.Surfaces(), ", "))
		fmt.Println(t.statusStyle().Render("Dirt types"))
		fmt.Println("  " + strings.Join(vocab.DirtTypes(), ", "))
		fmt.Println(t.statusStyle().Render("Methods"))
		fmt.Println("  " + strings.Join(vocab.Methods(), ", "))
		fmt.Println(t.statusStyle().Render("Gentle methods"))
		var gentle []string
		for _, m := range vocab.Methods() {
			if vocab.IsGentleMethod(m) {
				gentle = append(gentle, m)
			}
		}
		fmt.Println("  " + strings.Join(gentle, ", "))
	},
}
