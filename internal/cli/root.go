// Package cli provides the command-line interface for suds.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sudslabs/suds/internal/config"
	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/engine"
	"github.com/sudslabs/suds/internal/metrics"
	"github.com/sudslabs/suds/internal/narrative"
)

var (
	// Version is set at build time.
	Version = "1.0.0"

	// Global flags
	verbose  bool
	demoMode bool
	askPass  bool

	// Global state wired in PersistentPreRunE
	cfg        config.Config
	collector  *metrics.Collector
	store      corpus.Store
	surreal    *corpus.Surreal
	eng        *engine.Engine
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "suds",
	Short: "Corpus-backed cleaning workflow planner",
	Long: `Suds plans step-by-step cleaning workflows by retrieving and recombining
procedure fragments extracted from real cleaning guides.

Describe what needs cleaning (a surface, what's on it, optionally how) and
suds ranks the cleaning methods the corpus supports, aggregates and
deduplicates their steps, checks your constraints, and assembles a workflow
with tools, safety notes, and source references.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipSetup(cmd) {
			return nil
		}

		cfg = config.Load()
		logger, cleanup := config.SetupLogger(cfg)
		logCleanup = cleanup
		collector = metrics.NewCollector()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if demoMode {
			store = corpus.NewDemoMemory()
		} else {
			pass := cfg.SurrealDBPass
			if askPass {
				var err error
				pass, err = promptPassword(cfg.SurrealDBUser)
				if err != nil {
					return err
				}
			}
			var err error
			surreal, err = corpus.Connect(ctx, corpus.Config{
				URL:       cfg.SurrealDBURL,
				Namespace: cfg.SurrealDBNamespace,
				Database:  cfg.SurrealDBDatabase,
				Username:  cfg.SurrealDBUser,
				Password:  pass,
				AuthLevel: cfg.SurrealDBAuthLevel,
			}, logger)
			if err != nil {
				return fmt.Errorf("connect to corpus: %w", err)
			}
			if err := surreal.InitSchema(ctx); err != nil {
				return fmt.Errorf("initialize schema: %w", err)
			}
			store = surreal
		}

		narrator, err := narrative.New(ctx, cfg, collector, logger)
		if err != nil {
			return fmt.Errorf("init narrative generator: %w", err)
		}

		eng = engine.New(store, narrator, collector, logger, engine.Options{
			MinSteps:         cfg.MinSteps,
			AllowFewerSteps:  cfg.AllowFewerSteps,
			StepFetchLimit:   cfg.StepFetchLimit,
			CorpusTimeout:    cfg.CorpusTimeout,
			NarrativeTimeout: cfg.NarrativeTimeout,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if surreal != nil {
			if err := surreal.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close corpus connection: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// skipSetup reports whether cmd runs without corpus access: pure lookups,
// help, and the remote plan path.
func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "vocab":
		return true
	case "plan":
		return planRemote
	}
	return false
}

// promptPassword reads the database password from the terminal.
func promptPassword(user string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("cannot prompt for password: stdin is not a terminal")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "use the built-in demo corpus instead of the database")
	rootCmd.PersistentFlags().BoolVar(&askPass, "ask-pass", false, "prompt for the database password")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(vocabCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
