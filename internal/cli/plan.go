package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudslabs/suds/internal/client"
	"github.com/sudslabs/suds/internal/engine"
)

var (
	planSurface   string
	planDirt      string
	planMethod    string
	planNoBleach  bool
	planNoHarsh   bool
	planGentle    bool
	planPrefer    string
	planLocation  string
	planMaterial  string
	planUrgency   string
	planNarrate   bool
	planJSON      bool
	planRemote    bool
	planServerURL string
)

var planCmd = &cobra.Command{
	Use:   "plan <query...>",
	Short: "Plan a cleaning workflow for a scenario",
	Long: `Plan a step-by-step cleaning workflow.

The scenario can be described in free text, with explicit flags, or both;
explicit flags win over terms extracted from the query.

Examples:
  suds plan "red wine stain on the living room carpet"
  suds plan --surface carpet --dirt stain "wine spill"
  suds plan "mold in the shower grout" --no-bleach --gentle
  suds plan "ink on my shirt" --remote --server http://suds.local:8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planSurface, "surface", "s", "", "surface type (e.g. carpet, sofa, countertop)")
	planCmd.Flags().StringVarP(&planDirt, "dirt", "d", "", "dirt type (e.g. stain, grease, mold)")
	planCmd.Flags().StringVarP(&planMethod, "method", "m", "", "cleaning method to use")
	planCmd.Flags().BoolVar(&planNoBleach, "no-bleach", false, "forbid bleach-based steps and tools")
	planCmd.Flags().BoolVar(&planNoHarsh, "no-harsh-chemicals", false, "forbid harsh chemicals")
	planCmd.Flags().BoolVar(&planGentle, "gentle", false, "only gentle cleaning methods")
	planCmd.Flags().StringVar(&planPrefer, "prefer", "", "preferred cleaning method (soft constraint)")
	planCmd.Flags().StringVar(&planLocation, "location", "", "where the surface is (context hint)")
	planCmd.Flags().StringVar(&planMaterial, "material", "", "surface material (context hint)")
	planCmd.Flags().StringVar(&planUrgency, "urgency", "", "urgency: low, normal, or high")
	planCmd.Flags().BoolVar(&planNarrate, "narrate", false, "rephrase step text via the narrative generator")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the raw workflow JSON")
	planCmd.Flags().BoolVar(&planRemote, "remote", false, "plan via a suds server instead of a local corpus")
	planCmd.Flags().StringVar(&planServerURL, "server", "", "server URL for --remote (default SUDS_SERVER_URL)")
}

func buildPlanRequest(args []string) engine.Request {
	req := engine.Request{
		Query:   strings.Join(args, " "),
		Surface: planSurface,
		Dirt:    planDirt,
		Method:  planMethod,
		Narrate: planNarrate,
	}
	if planNoBleach || planNoHarsh || planGentle || planPrefer != "" {
		req.Constraints = &engine.Constraints{
			NoBleach:         planNoBleach,
			NoHarshChemicals: planNoHarsh,
			GentleOnly:       planGentle,
			PreferredMethod:  planPrefer,
		}
	}
	if planLocation != "" || planMaterial != "" || planUrgency != "" {
		req.Context = &engine.RequestContext{
			Location: planLocation,
			Material: planMaterial,
			Urgency:  planUrgency,
		}
	}
	return req
}

func runPlan(cmd *cobra.Command, args []string) error {
	req := buildPlanRequest(args)
	ctx := cmd.Context()

	var wf *engine.Workflow
	var err error
	if planRemote {
		wf, err = runRemotePlan(ctx, req)
	} else {
		wf, err = eng.Plan(ctx, req)
	}
	if err != nil {
		printPlanError(err)
		os.Exit(1)
	}

	if planJSON {
		out, err := json.MarshalIndent(wf, "", "  ")
		if err != nil {
			return fmt.Errorf("encode workflow: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(renderWorkflow(wf))
	return nil
}

// runRemotePlan plans through the server. With a terminal attached it
// shows a live progress UI fed by the phase event stream; otherwise it
// falls back to a plain request.
func runRemotePlan(ctx context.Context, req engine.Request) (*engine.Workflow, error) {
	c := client.New(planServerURL)
	if planJSON || !stdoutIsTerminal() {
		return c.Plan(ctx, req)
	}
	return RunPlanProgress(ctx, c, req)
}

// printPlanError renders a planner failure with its suggestions and
// alternatives, from either a local *engine.Error or a client.APIError.
func printPlanError(err error) {
	theme := defaultTheme

	var pe *engine.Error
	if errors.As(err, &pe) {
		fmt.Fprintln(os.Stderr, theme.errorStyle().Render("✗ "+pe.Message))
		printSuggestions(pe.Suggestions)
		printAvailableMethods(pe.AvailableMethods)
		return
	}
	var ae *client.APIError
	if errors.As(err, &ae) {
		fmt.Fprintln(os.Stderr, theme.errorStyle().Render("✗ "+ae.Message))
		printSuggestions(ae.Suggestions)
		printAvailableMethods(ae.AvailableMethods)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func printSuggestions(suggestions []engine.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "\nSimilar scenarios with coverage:")
	for _, sg := range suggestions {
		if sg.Message != "" {
			fmt.Fprintf(os.Stderr, "  • %s\n", sg.Message)
			continue
		}
		fmt.Fprintf(os.Stderr, "  • %s × %s (%s, similarity %.1f)\n",
			sg.Surface, sg.Dirt, sg.Method, sg.Similarity)
	}
}

func printAvailableMethods(methods []string) {
	if len(methods) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\nMethods satisfying your constraints: %s\n", strings.Join(methods, ", "))
}
