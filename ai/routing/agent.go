// Package routing implements the agent routing pipeline: it turns a free-text
// user request into a single agent assignment with a confidence tier and a
// human-readable justification, degrading from an LLM classifier through a
// keyword heuristic down to a fixed fallback.
package routing

// Operation represents the kind of action a message asks for.
type Operation string

const (
	OperationCreate  Operation = "create"
	OperationRead    Operation = "read"
	OperationUpdate  Operation = "update"
	OperationDelete  Operation = "delete"
	OperationUnknown Operation = "unknown"
)

// Confidence is an ordered qualitative rating attached to a routing decision.
// Callers use it to decide whether to act directly or hedge (e.g. ask a
// clarifying question).
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var confidenceRank = map[Confidence]int{
	ConfidenceLow:    1,
	ConfidenceMedium: 2,
	ConfidenceHigh:   3,
}

// AtLeast reports whether c is at or above other in the low < medium < high ordering.
func (c Confidence) AtLeast(other Confidence) bool {
	return confidenceRank[c] >= confidenceRank[other]
}

// ParseConfidence parses a confidence string. Returns false for unknown values.
func ParseConfidence(s string) (Confidence, bool) {
	c := Confidence(s)
	_, ok := confidenceRank[c]
	return c, ok
}

// Stage identifies which classifier in the fallback chain produced a decision.
type Stage string

const (
	StagePrimary   Stage = "primary"
	StageHeuristic Stage = "heuristic"
	StageSafety    Stage = "safety"
)

// Signal sources.
const (
	SourceKeyword       = "keyword"
	SourceOperation     = "operation"
	SourceEntityContext = "entity_context"
	SourceGreeting      = "greeting"
	SourcePriority      = "priority"
	SourcePrimary       = "primary"
)

// AgentDescriptor describes one routable destination.
// Descriptors are registered at startup and never mutated afterwards.
type AgentDescriptor struct {
	// ID is the unique stable agent identifier, e.g. "employee_agent".
	ID string

	// Keywords is the agent's domain vocabulary. Multi-word phrases are
	// allowed and outweigh generic single words during matching.
	Keywords []string

	// OperationAffinity maps an operation type to an additive score boost
	// applied when the agent already has keyword evidence.
	OperationAffinity map[Operation]float64
}

// ClassificationSignal is one piece of evidence produced by an extractor.
// Signals are created per routing call and discarded afterwards.
type ClassificationSignal struct {
	Source         string   `json:"source"`
	CandidateAgent string   `json:"candidate_agent"`
	Weight         float64  `json:"weight"`
	MatchedTerms   []string `json:"matched_terms,omitempty"`
}

// RoutingDecision is the final output of a routing call.
// It is created once per incoming message and never mutated afterwards.
//
// SignalsConsidered is empty exactly when Stage is StageSafety: the primary
// stage records one synthetic signal for the selected agent, and the
// heuristic's zero-evidence path records one zero-weight priority signal.
type RoutingDecision struct {
	ID                string                 `json:"id"`
	SelectedAgent     string                 `json:"selected_agent"`
	Confidence        Confidence             `json:"confidence"`
	Reasoning         string                 `json:"reasoning"`
	Stage             Stage                  `json:"stage"`
	SignalsConsidered []ClassificationSignal `json:"signals_considered"`
}
