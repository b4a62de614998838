// Package engine plans cleaning workflows by retrieving and
// recombining procedure fragments from the corpus.
package engine

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/metrics"
	"github.com/sudslabs/suds/internal/narrative"
)

const (
	agentVersion     = "1.0"
	extractionMethod = "agent"
)

// Phase names emitted while a plan is being produced.
type Phase string

const (
	PhaseNormalize    Phase = "normalize"
	PhaseSelectMethod Phase = "select_method"
	PhaseFetchSteps   Phase = "fetch_steps"
	PhaseFetchTools   Phase = "fetch_tools"
	PhaseValidate     Phase = "validate"
	PhaseFallback     Phase = "fallback"
	PhaseNarrate      Phase = "narrate"
	PhaseAssemble     Phase = "assemble"
)

// PhaseEvent reports planner progress, e.g. to a streaming client.
type PhaseEvent struct {
	Phase  Phase  `json:"phase"`
	Detail string `json:"detail,omitempty"`
}

// ProgressFunc receives phase events during planning. It is called
// synchronously and must not block.
type ProgressFunc func(PhaseEvent)

// Options tune the planner.
type Options struct {
	MinSteps         int
	AllowFewerSteps  bool
	StepFetchLimit   int
	CorpusTimeout    time.Duration
	NarrativeTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinSteps <= 0 {
		o.MinSteps = 3
	}
	if o.StepFetchLimit <= 0 {
		o.StepFetchLimit = 20
	}
	if o.CorpusTimeout <= 0 {
		o.CorpusTimeout = 10 * time.Second
	}
	if o.NarrativeTimeout <= 0 {
		o.NarrativeTimeout = 20 * time.Second
	}
	return o
}

// Engine composes workflows from corpus procedure fragments.
type Engine struct {
	store    corpus.Store
	narrator narrative.Generator
	metrics  *metrics.Collector
	logger   *slog.Logger
	opts     Options
}

// New creates an engine. narrator may be nil to disable narration;
// collector and logger may be nil.
func New(store corpus.Store, narrator narrative.Generator, collector *metrics.Collector, logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Engine{
		store:    store,
		narrator: narrator,
		metrics:  collector,
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Metrics exposes the engine's collector for transports.
func (e *Engine) Metrics() *metrics.Collector {
	return e.metrics
}

// Plan produces a workflow for the request or a classified *Error.
func (e *Engine) Plan(ctx context.Context, req Request) (*Workflow, error) {
	return e.PlanWithProgress(ctx, req, nil)
}

// PlanWithProgress is Plan with phase reporting.
func (e *Engine) PlanWithProgress(ctx context.Context, req Request, progress ProgressFunc) (*Workflow, error) {
	planStart := time.Now()
	defer func() {
		e.metrics.RecordTiming(metrics.OpPlan, time.Since(planStart))
	}()

	emit := func(phase Phase, detail string) {
		if progress != nil {
			progress(PhaseEvent{Phase: phase, Detail: detail})
		}
	}

	emit(PhaseNormalize, "")
	normStart := time.Now()
	sc, verr := normalizeRequest(req)
	var cons Constraints
	if verr == nil {
		cons, verr = normalizeConstraints(req.Constraints)
	}
	e.metrics.RecordTiming(metrics.OpNormalize, time.Since(normStart))
	if verr != nil {
		e.logger.Warn("plan rejected", "code", verr.Code, "error", verr.Message)
		return nil, verr
	}
	e.logger.Debug("scenario normalized",
		"surface", sc.Surface, "dirt", sc.Dirt, "method", sc.Method, "wool", sc.Wool)

	result, perr := e.resolve(ctx, sc, cons, emit)
	if perr != nil {
		e.logger.Warn("plan failed", "code", perr.Code, "error", perr.Message)
		return nil, perr
	}

	wf, berr := e.buildWorkflow(ctx, req, sc, cons, result, emit)
	if berr != nil {
		return nil, berr
	}
	e.logger.Info("workflow planned",
		"workflow_id", wf.WorkflowID,
		"outcome", wf.Outcome,
		"method", wf.Scenario.Method,
		"steps", len(wf.Procedure.Steps),
		"stage", result.Stage.String())
	return wf, nil
}

// planResult is the winning ladder attempt.
type planResult struct {
	Stage     fallbackStage
	Scope     relaxedScope
	Selection selection
	Rows      []corpus.StepRow
	ToolRows  []corpus.ToolRow
	Warnings  []string
	Degraded  bool
}

// attemptOutcome reports a scope attempt that did not produce a plan.
type attemptOutcome struct {
	result      *planResult
	satisfiable []string
	conflicted  bool
}

// resolve walks the relaxation ladder: the exact scenario first
// (including method fallback within it), then similar surfaces with
// the same contaminant, then similar contaminants on the same
// surface. Constraint conflicts and exhausted coverage map to
// different failures.
func (e *Engine) resolve(ctx context.Context, sc *scenario, cons Constraints, emit func(Phase, string)) (*planResult, *Error) {
	exact := relaxedScope{Surface: sc.Surface, Dirt: sc.Dirt, Similarity: 1.0}
	out, err := e.attemptScope(ctx, sc, cons, exact, stageExact, true, emit)
	if err != nil {
		return nil, err
	}
	if out.result != nil {
		return out.result, nil
	}

	satisfiable := out.satisfiable
	conflicted := out.conflicted

	emit(PhaseFallback, "")
	fallbackStart := time.Now()
	defer func() {
		e.metrics.RecordTiming(metrics.OpFallback, time.Since(fallbackStart))
	}()

	similar, serr := e.similarScenarios(ctx, sc.Surface, sc.Dirt, 10)
	if serr != nil {
		return nil, unavailableError(serr)
	}

	for _, stage := range []fallbackStage{stageRelaxSurface, stageRelaxContaminant} {
		for _, scope := range relaxationScopes(similar, sc, stage) {
			emit(PhaseFallback, fmt.Sprintf("%s: trying %s × %s", stage, scope.Surface, scope.Dirt))
			out, err := e.attemptScope(ctx, sc, cons, scope, stage, false, emit)
			if err != nil {
				return nil, err
			}
			if out.result != nil {
				return out.result, nil
			}
			satisfiable = append(satisfiable, out.satisfiable...)
			conflicted = conflicted || out.conflicted
		}
	}

	if conflicted {
		msg := "Declared constraints conflict with the available cleaning methods for this scenario."
		if len(satisfiable) > 0 {
			msg += " Methods satisfying the constraints lack sufficient step coverage."
		}
		return nil, conflictError(msg, dedupeStrings(satisfiable))
	}
	return nil, noMatchError(
		"No matching cleaning procedures found. Please try a different query or check the corpus coverage.",
		buildSuggestions(similar),
	)
}

// attemptScope ranks methods for one (surface, dirt) scope and tries
// candidates in order until one yields a viable, constraint-clean set
// of steps. allowTopUp additionally borrows steps from similar
// scenarios before giving up on a method.
func (e *Engine) attemptScope(ctx context.Context, sc *scenario, cons Constraints, scope relaxedScope, stage fallbackStage, allowTopUp bool, emit func(Phase, string)) (attemptOutcome, *Error) {
	var outcome attemptOutcome

	emit(PhaseSelectMethod, fmt.Sprintf("%s × %s", scope.Surface, scope.Dirt))
	summaries, err := e.methodSummaries(ctx, scope.Surface, scope.Dirt)
	if err != nil {
		return outcome, unavailableError(err)
	}
	if len(summaries) == 0 {
		return outcome, nil
	}

	scoped := *sc
	scoped.Surface = scope.Surface
	scoped.Dirt = scope.Dirt
	sel := selectMethod(summaries, &scoped, cons)
	if sel.Method == "" {
		return outcome, nil
	}

	var baseWarnings []string
	baseDegraded := false
	if userMethod := requestedMethod(sc, cons); userMethod != "" && sel.Method != userMethod {
		if !methodAllowed(userMethod, cons) {
			baseWarnings = append(baseWarnings,
				fmt.Sprintf("Requested method %q conflicts with the gentle constraints; ranked selection used", userMethod))
		} else {
			baseWarnings = append(baseWarnings,
				fmt.Sprintf("Requested method %q has no corpus coverage for this scenario; ranked selection used", userMethod))
		}
		baseDegraded = true
	}

	// selFailure records why the top-ranked method was passed over, so
	// the fallback warning names the real cause.
	selFailure := ""
	noteFailure := func(method, cause string) {
		if method == sel.Method && selFailure == "" {
			selFailure = cause
		}
	}

	for _, method := range orderedCandidates(sel) {
		if !methodAllowed(method, cons) {
			noteFailure(method, "conflicts with the declared constraints")
			outcome.conflicted = true
			continue
		}

		stepRows, toolRows, ferr := e.fetchScope(ctx, scope, method, emit)
		if ferr != nil {
			return outcome, unavailableError(ferr)
		}

		rows := orderSteps(dedupeSteps(filterRelevance(filterQuality(stepRows), &scoped)))

		topUpWarning := ""
		if allowTopUp && len(rows) < effectiveMinSteps(len(rows), e.opts.MinSteps, e.opts.AllowFewerSteps) {
			needed := e.opts.MinSteps - len(rows)
			combined, added := e.topUpRows(ctx, scope, stepRows, needed)
			if added > 0 {
				rows = orderSteps(dedupeSteps(filterRelevance(filterQuality(combined), &scoped)))
				topUpWarning = fmt.Sprintf("Supplemented %d step(s) from similar scenarios to reach a viable workflow", added)
			}
		}

		emit(PhaseValidate, method)
		validateStart := time.Now()
		effMin := effectiveMinSteps(len(rows), e.opts.MinSteps, e.opts.AllowFewerSteps)
		rv := validateRows(method, rows, cons, effMin)
		e.metrics.RecordTiming(metrics.OpValidate, time.Since(validateStart))
		if rv.Violation != nil {
			e.logger.Debug("method rejected by constraints",
				"method", method, "constraint", rv.Violation.Constraint, "reason", rv.Violation.Reason)
			noteFailure(method, "conflicts with the declared constraints")
			outcome.conflicted = true
			continue
		}
		if len(rv.Rows) < absoluteMinSteps(e.opts.MinSteps, e.opts.AllowFewerSteps) {
			e.logger.Debug("method yielded too few steps",
				"method", method, "error", insufficientError(len(rv.Rows), e.opts.MinSteps))
			noteFailure(method, "yielded insufficient steps")
			if constraintsActive(cons) {
				outcome.satisfiable = append(outcome.satisfiable, method)
			}
			continue
		}

		result := &planResult{
			Stage:     stage,
			Scope:     scope,
			Selection: sel,
			Rows:      rv.Rows,
			ToolRows:  toolRows,
			Warnings:  append(baseWarnings, rv.Warnings...),
			Degraded:  baseDegraded || rv.Degraded,
		}
		if topUpWarning != "" {
			result.Warnings = append(result.Warnings, topUpWarning)
			result.Degraded = true
		}
		if method != sel.Method {
			if stage == stageExact {
				result.Stage = stageRelaxMethod
			}
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Method %s %s; %s selected instead", sel.Method, selFailure, method))
			if sc.methodRequested || cons.PreferredMethod != "" {
				result.Degraded = true
			}
			result.Selection.Method = method
			result.Selection.Reason += fmt.Sprintf(" Fallback: %s %s; %s selected instead.", sel.Method, selFailure, method)
		}
		if stage == stageRelaxSurface || stage == stageRelaxContaminant {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("No viable coverage for %s × %s; planned from similar scenario %s × %s",
					sc.Surface, sc.Dirt, scope.Surface, scope.Dirt))
			result.Degraded = true
		}
		if len(rv.Rows) < e.opts.MinSteps {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Limited corpus data: %d steps found, below the configured minimum of %d", len(rv.Rows), e.opts.MinSteps))
			result.Degraded = true
		}
		return attemptOutcome{result: result}, nil
	}

	return outcome, nil
}

// orderedCandidates yields the selected method first, then the
// remaining candidates by rank.
func orderedCandidates(sel selection) []string {
	out := []string{sel.Method}
	for _, c := range sel.Candidates {
		if c.Method != sel.Method {
			out = append(out, c.Method)
		}
	}
	return out
}

func requestedMethod(sc *scenario, cons Constraints) string {
	if sc.Method != "" {
		return sc.Method
	}
	return cons.PreferredMethod
}

func constraintsActive(cons Constraints) bool {
	return cons.NoBleach || cons.NoHarshChemicals || cons.GentleOnly
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// fetchScope retrieves steps and tools for one candidate method
// concurrently.
func (e *Engine) fetchScope(ctx context.Context, scope relaxedScope, method string, emit func(Phase, string)) ([]corpus.StepRow, []corpus.ToolRow, error) {
	var stepRows []corpus.StepRow
	var toolRows []corpus.ToolRow

	emit(PhaseFetchSteps, method)
	emit(PhaseFetchTools, method)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.steps(gctx, scope.Surface, scope.Dirt, method, e.opts.StepFetchLimit)
		if err != nil {
			return err
		}
		stepRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := e.tools(gctx, scope.Surface, scope.Dirt, method)
		if err != nil {
			return err
		}
		toolRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stepRows, toolRows, nil
}

// topUpRows borrows raw steps from up to three similar scenarios,
// skipping texts already retrieved. Failures are soft: the plan
// proceeds with whatever was found.
func (e *Engine) topUpRows(ctx context.Context, scope relaxedScope, raw []corpus.StepRow, needed int) ([]corpus.StepRow, int) {
	if needed <= 0 {
		return raw, 0
	}
	similar, err := e.similarScenarios(ctx, scope.Surface, scope.Dirt, 3)
	if err != nil {
		e.logger.Warn("similar scenario lookup failed during top-up", "error", err)
		return raw, 0
	}

	existing := make(map[string]bool, len(raw))
	for _, r := range raw {
		existing[strings.ToLower(r.Text)] = true
	}

	combined := raw
	added := 0
	for _, combo := range similar {
		if added >= needed {
			break
		}
		rows, err := e.steps(ctx, combo.Surface, combo.Dirt, combo.Method, needed)
		if err != nil {
			e.logger.Warn("step fetch failed during top-up",
				"surface", combo.Surface, "dirt", combo.Dirt, "method", combo.Method, "error", err)
			continue
		}
		for _, r := range rows {
			if added >= needed {
				break
			}
			key := strings.ToLower(r.Text)
			if existing[key] {
				continue
			}
			existing[key] = true
			combined = append(combined, r)
			added++
		}
	}
	return combined, added
}

// buildWorkflow assembles the final workflow from the winning attempt.
func (e *Engine) buildWorkflow(ctx context.Context, req Request, sc *scenario, cons Constraints, pr *planResult, emit func(Phase, string)) (*Workflow, *Error) {
	emit(PhaseAssemble, "")

	steps := formatSteps(pr.Rows)
	warnings := pr.Warnings
	degraded := pr.Degraded

	if req.Narrate && e.narrator != nil {
		emit(PhaseNarrate, "")
		steps, warnings = e.narrateSteps(ctx, steps, pr, warnings)
	}

	tools := aggregateTools(pr.ToolRows, steps)
	tools, toolWarnings, toolsDegraded := validateTools(tools, cons)
	warnings = append(warnings, toolWarnings...)
	degraded = degraded || toolsDegraded

	refDocs := e.referenceDocuments(ctx, pr.Rows)
	if len(refDocs) < 2 {
		warnings = append(warnings, "Workflow based on limited data (fewer than 2 reference documents)")
	}

	coverageScore := 0.0
	if len(refDocs) > 0 {
		coverageScore = 1.0
	}

	outcome := OutcomeAccept
	if degraded {
		outcome = OutcomeDegraded
	}

	var fb *FallbackInfo
	if pr.Stage != stageExact {
		fb = &FallbackInfo{
			Stage:            pr.Stage.String(),
			Similarity:       pr.Scope.Similarity,
			RequestedSurface: sc.Surface,
			RequestedDirt:    sc.Dirt,
			UsedSurface:      pr.Scope.Surface,
			UsedDirt:         pr.Scope.Dirt,
		}
	}

	return &Workflow{
		WorkflowID: shortID("wf"),
		Outcome:    outcome,
		Scenario: Scenario{
			Surface:         pr.Scope.Surface,
			Dirt:            pr.Scope.Dirt,
			Method:          pr.Selection.Method,
			NormalizedQuery: sc.Query,
		},
		Procedure: Procedure{
			EstimatedDurationMinutes: totalDurationMinutes(steps),
			Difficulty:               difficultyFor(len(steps)),
			Steps:                    steps,
			RequiredTools:            tools,
			SafetyNotes:              extractSafetyNotes(refDocs, cons),
			Tips:                     extractTips(refDocs),
		},
		SourceDocuments: sourceDocuments(pr.Rows),
		Metadata: Metadata{
			GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
			AgentVersion:     agentVersion,
			ExtractionMethod: extractionMethod,
			Confidence:       workflowConfidence(pr.Rows),
			CorpusCoverage: CorpusCoverage{
				MatchingDocuments: len(refDocs),
				TotalCombinations: 1,
				CoverageScore:     coverageScore,
			},
			ConstraintsApplied: appliedConstraints(cons),
			MethodSelection: &MethodSelection{
				ChosenMethod:    pr.Selection.Method,
				Candidates:      pr.Selection.Candidates,
				SelectionReason: pr.Selection.Reason,
			},
			Warnings: warnings,
			Fallback: fb,
		},
	}, nil
}

// narrateSteps rewrites step descriptions through the narrative
// generator. A rewrite is kept only when it retains the original
// step's action verbs; any provider failure keeps the remaining
// steps verbatim.
func (e *Engine) narrateSteps(ctx context.Context, steps []Step, pr *planResult, warnings []string) ([]Step, []string) {
	nctx, cancel := context.WithTimeout(ctx, e.opts.NarrativeTimeout)
	defer cancel()

	for i := range steps {
		out, err := e.narrator.Rephrase(nctx, narrative.StepInput{
			Text:    steps[i].Description,
			Surface: pr.Scope.Surface,
			Dirt:    pr.Scope.Dirt,
			Method:  pr.Selection.Method,
		})
		if err != nil {
			e.logger.Warn("narrative generation failed, keeping corpus text", "error", err)
			warnings = append(warnings, "Narrative generation unavailable; workflow uses corpus step text")
			return steps, warnings
		}
		if out == "" || !keepsActionVerbs(steps[i].Description, out) {
			continue
		}
		steps[i].Description = out
	}
	return steps, warnings
}

// keepsActionVerbs reports whether the rewrite still contains at
// least one action verb present in the original text.
func keepsActionVerbs(original, rephrased string) bool {
	lowerOrig := strings.ToLower(original)
	lowerNew := strings.ToLower(rephrased)
	found := false
	for _, v := range actionVerbs {
		if strings.Contains(lowerOrig, v) {
			found = true
			if strings.Contains(lowerNew, v) {
				return true
			}
		}
	}
	return !found
}

// referenceDocuments loads full context for the documents behind the
// final steps, capped at five. Missing documents are skipped.
func (e *Engine) referenceDocuments(ctx context.Context, rows []corpus.StepRow) []*corpus.Document {
	var ids []string
	seen := map[string]bool{}
	for _, row := range rows {
		if seen[row.DocumentID] {
			continue
		}
		seen[row.DocumentID] = true
		ids = append(ids, row.DocumentID)
		if len(ids) == maxSourceDocuments {
			break
		}
	}

	var docs []*corpus.Document
	for _, id := range ids {
		doc, err := e.documentContext(ctx, id)
		if err != nil {
			e.logger.Warn("reference document lookup failed", "document_id", id, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// ===== STORE ACCESS =====

func (e *Engine) methodSummaries(ctx context.Context, surface, dirt string) ([]corpus.MethodSummary, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	start := time.Now()
	out, err := e.store.MethodSummaries(cctx, surface, dirt)
	e.metrics.RecordTiming(metrics.OpSelectMethod, time.Since(start))
	return out, err
}

func (e *Engine) steps(ctx context.Context, surface, dirt, method string, limit int) ([]corpus.StepRow, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	start := time.Now()
	out, err := e.store.Steps(cctx, surface, dirt, method, limit)
	e.metrics.RecordTiming(metrics.OpFetchSteps, time.Since(start))
	return out, err
}

func (e *Engine) tools(ctx context.Context, surface, dirt, method string) ([]corpus.ToolRow, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	start := time.Now()
	out, err := e.store.Tools(cctx, surface, dirt, method)
	e.metrics.RecordTiming(metrics.OpFetchTools, time.Since(start))
	return out, err
}

func (e *Engine) similarScenarios(ctx context.Context, surface, dirt string, limit int) ([]corpus.SimilarScenario, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	return e.store.SimilarScenarios(cctx, surface, dirt, limit)
}

func (e *Engine) documentContext(ctx context.Context, id string) (*corpus.Document, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	return e.store.DocumentContext(cctx, id)
}

func shortID(prefix string) string {
	id := uuid.New()
	return prefix + "-" + hex.EncodeToString(id[:4])
}
