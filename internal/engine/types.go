package engine

// Request is a workflow planning request. Query is required; the
// scenario fields are optional and override extraction from the
// query text when set.
type Request struct {
	Query       string          `json:"query"`
	Surface     string          `json:"surface_type,omitempty"`
	Dirt        string          `json:"dirt_type,omitempty"`
	Method      string          `json:"cleaning_method,omitempty"`
	Constraints *Constraints    `json:"constraints,omitempty"`
	Context     *RequestContext `json:"context,omitempty"`
	Narrate     bool            `json:"narrate,omitempty"`
}

// Constraints restrict what the planner may select. NoBleach and
// NoHarshChemicals are hard constraints; GentleOnly is hard on the
// method and soft on individual steps; PreferredMethod is soft.
type Constraints struct {
	NoBleach         bool   `json:"no_bleach,omitempty"`
	NoHarshChemicals bool   `json:"no_harsh_chemicals,omitempty"`
	PreferredMethod  string `json:"preferred_method,omitempty"`
	GentleOnly       bool   `json:"gentle_only,omitempty"`
}

// RequestContext carries situational hints that tune scoring but
// never select a scenario on their own.
type RequestContext struct {
	Location string `json:"location,omitempty"`
	Material string `json:"material,omitempty"`
	Urgency  string `json:"urgency,omitempty"`
}

// Outcome values for a successfully planned workflow.
const (
	OutcomeAccept   = "accept"
	OutcomeDegraded = "degraded"
)

// Workflow is the planner's result envelope.
type Workflow struct {
	WorkflowID      string           `json:"workflow_id"`
	Outcome         string           `json:"outcome"`
	Scenario        Scenario         `json:"scenario"`
	Procedure       Procedure        `json:"workflow"`
	SourceDocuments []SourceDocument `json:"source_documents"`
	Metadata        Metadata         `json:"metadata"`
}

// Scenario is the normalized (surface, dirt, method) triple the
// workflow was planned for.
type Scenario struct {
	Surface         string `json:"surface_type"`
	Dirt            string `json:"dirt_type"`
	Method          string `json:"cleaning_method"`
	NormalizedQuery string `json:"normalized_query"`
}

// Procedure is the executable part of a workflow.
type Procedure struct {
	EstimatedDurationMinutes int            `json:"estimated_duration_minutes"`
	Difficulty               string         `json:"difficulty"`
	Steps                    []Step         `json:"steps"`
	RequiredTools            []RequiredTool `json:"required_tools"`
	SafetyNotes              []string       `json:"safety_notes"`
	Tips                     []string       `json:"tips"`
}

// Step is one ordered instruction.
type Step struct {
	StepNumber      int      `json:"step_number"`
	Action          string   `json:"action"`
	Description     string   `json:"description"`
	Tools           []string `json:"tools"`
	DurationSeconds int      `json:"duration_seconds"`
	Order           int      `json:"order"`
}

// RequiredTool is an aggregated tool requirement. Alternative names
// a substitute when one is known.
type RequiredTool struct {
	Name        string `json:"tool_name"`
	Category    string `json:"category,omitempty"`
	Quantity    string `json:"quantity"`
	IsRequired  bool   `json:"is_required"`
	Alternative string `json:"alternative,omitempty"`
}

// SourceDocument records provenance for the steps that made it into
// the final workflow.
type SourceDocument struct {
	DocumentID           string  `json:"document_id"`
	URL                  string  `json:"url"`
	Title                string  `json:"title"`
	RelevanceScore       float64 `json:"relevance_score"`
	ExtractionConfidence float64 `json:"extraction_confidence"`
}

// Metadata describes how the workflow was produced.
type Metadata struct {
	GeneratedAt        string           `json:"generated_at"`
	AgentVersion       string           `json:"agent_version"`
	ExtractionMethod   string           `json:"extraction_method"`
	Confidence         float64          `json:"confidence"`
	CorpusCoverage     CorpusCoverage   `json:"corpus_coverage"`
	ConstraintsApplied []string         `json:"constraints_applied,omitempty"`
	MethodSelection    *MethodSelection `json:"method_selection,omitempty"`
	Warnings           []string         `json:"warnings,omitempty"`
	Fallback           *FallbackInfo    `json:"fallback,omitempty"`
}

// CorpusCoverage summarizes how much corpus evidence backed the plan.
type CorpusCoverage struct {
	MatchingDocuments int     `json:"matching_documents"`
	TotalCombinations int     `json:"total_combinations"`
	CoverageScore     float64 `json:"coverage_score"`
}

// MethodSelection explains why the chosen method won.
type MethodSelection struct {
	ChosenMethod    string            `json:"chosen_method"`
	Candidates      []MethodCandidate `json:"candidates"`
	SelectionReason string            `json:"selection_reason"`
}

// MethodCandidate is one scored method.
type MethodCandidate struct {
	Method string  `json:"method"`
	Score  float64 `json:"score"`
}

// FallbackInfo records which relaxation produced the plan when the
// requested scenario had no viable coverage.
type FallbackInfo struct {
	Stage            string  `json:"stage"`
	Similarity       float64 `json:"similarity_score"`
	RequestedSurface string  `json:"requested_surface"`
	RequestedDirt    string  `json:"requested_dirt"`
	UsedSurface      string  `json:"used_surface"`
	UsedDirt         string  `json:"used_dirt"`
}
