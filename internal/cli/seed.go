package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudslabs/suds/internal/corpus"
)

var seedWipe bool

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load a YAML corpus fixture into the store",
	Long: `Load corpus documents from a YAML fixture file. Documents are upserted
by id. This is operator tooling for fixtures and local development; the
planner itself never writes to the corpus.

Examples:
  suds seed fixtures/corpus.yaml
  suds seed fixtures/corpus.yaml --wipe`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "wipe existing corpus data first")
}

func runSeed(cmd *cobra.Command, args []string) error {
	file, err := corpus.LoadSeedFile(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if seedWipe {
		if surreal == nil {
			return fmt.Errorf("--wipe requires a database store")
		}
		if err := surreal.WipeData(ctx); err != nil {
			return fmt.Errorf("wipe corpus: %w", err)
		}
	}

	switch s := store.(type) {
	case *corpus.Surreal:
		err = s.Seed(ctx, file.Documents)
	case *corpus.Memory:
		err = s.Seed(ctx, file.Documents)
	default:
		return fmt.Errorf("store does not support seeding")
	}
	if err != nil {
		return fmt.Errorf("seed corpus: %w", err)
	}

	fmt.Printf("Seeded %d document(s) from %s\n", len(file.Documents), args[0])
	return nil
}
