package routing

import (
	"fmt"
	"sort"
	"strings"
)

// Scoring thresholds for the heuristic classifier.
const (
	// BaselineWeight is the weight of a single common keyword; high
	// confidence requires at least one signal stronger than this.
	BaselineWeight = 1.0
	// NearZeroScore is the floor below which the evidence is treated as
	// noise and confidence drops to low.
	NearZeroScore = 1.0
	// HighScoreFloor is the minimum unopposed score for high confidence.
	HighScoreFloor = 3.0
	// EntityContextBoost is added when a person name appears near an
	// agent's vocabulary.
	EntityContextBoost = 4.0
	// DefaultHighRatio is the top-vs-runner-up dominance ratio for high
	// confidence.
	DefaultHighRatio = 2.0
)

// HeuristicConfig tunes the deterministic classifier.
type HeuristicConfig struct {
	// HighRatio is the factor by which the top score must exceed the
	// runner-up for high confidence. Zero means DefaultHighRatio.
	HighRatio float64
	// DefaultAgent receives zero-evidence messages. Empty means the
	// registry's first agent.
	DefaultAgent string
}

// HeuristicClassifier scores messages against agent vocabularies without any
// model call. It is deterministic: equal inputs always produce equal
// decisions.
type HeuristicClassifier struct {
	registry  *AgentRegistry
	highRatio float64
	fallback  string
}

// NewHeuristicClassifier builds the keyword classifier over a registry.
func NewHeuristicClassifier(registry *AgentRegistry, cfg HeuristicConfig) *HeuristicClassifier {
	ratio := cfg.HighRatio
	if ratio <= 1.0 {
		ratio = DefaultHighRatio
	}
	fallback := cfg.DefaultAgent
	if fallback == "" || !registry.Has(fallback) {
		fallback = registry.First()
	}
	return &HeuristicClassifier{
		registry:  registry,
		highRatio: ratio,
		fallback:  fallback,
	}
}

// Classify routes a message by accumulated keyword, operation and entity
// evidence. The returned decision carries every contributing signal.
func (h *HeuristicClassifier) Classify(message string) *RoutingDecision {
	if IsGreeting(message) {
		return &RoutingDecision{
			SelectedAgent: h.fallback,
			Confidence:    ConfidenceLow,
			Reasoning:     "greeting with no actionable request, handled by the default agent",
			Stage:         StageHeuristic,
			SignalsConsidered: []ClassificationSignal{{
				Source:         SourceGreeting,
				CandidateAgent: h.fallback,
				Weight:         BaselineWeight,
				MatchedTerms:   []string{normalizeMessage(message)},
			}},
		}
	}

	signals := ExtractKeywordSignals(message, h.registry)

	scores := make(map[string]float64, h.registry.Len())
	terms := make(map[string][]string, h.registry.Len())
	for _, s := range signals {
		scores[s.CandidateAgent] += s.Weight
		terms[s.CandidateAgent] = append(terms[s.CandidateAgent], s.MatchedTerms...)
	}

	op := ExtractOperationType(message)
	if op != OperationUnknown {
		// Operation affinity only amplifies existing keyword evidence; it
		// never introduces a candidate on its own. Iterate in priority
		// order to keep the signal list deterministic.
		for _, agent := range h.registry.IDs() {
			if _, hasEvidence := scores[agent]; !hasEvidence {
				continue
			}
			desc, _ := h.registry.Get(agent)
			boost := desc.OperationAffinity[op]
			if boost <= 0 {
				continue
			}
			scores[agent] += boost
			signals = append(signals, ClassificationSignal{
				Source:         SourceOperation,
				CandidateAgent: agent,
				Weight:         boost,
				MatchedTerms:   []string{string(op)},
			})
		}
	}

	for _, ec := range ExtractEntityContext(message) {
		agent, matched := h.disambiguateEntity(ec)
		if agent == "" {
			continue
		}
		scores[agent] += EntityContextBoost
		signals = append(signals, ClassificationSignal{
			Source:         SourceEntityContext,
			CandidateAgent: agent,
			Weight:         EntityContextBoost,
			MatchedTerms:   append([]string{ec.PersonName}, matched...),
		})
	}

	if len(scores) == 0 {
		return &RoutingDecision{
			SelectedAgent: h.fallback,
			Confidence:    ConfidenceLow,
			Reasoning:     "no domain evidence found, falling back to the default agent",
			Stage:         StageHeuristic,
			SignalsConsidered: []ClassificationSignal{{
				Source:         SourcePriority,
				CandidateAgent: h.fallback,
				Weight:         0,
			}},
		}
	}

	winner, top, runnerUp, tied := h.selectWinner(scores, terms)
	confidence := h.confidenceFor(winner, top, runnerUp, tied, signals)

	return &RoutingDecision{
		SelectedAgent:     winner,
		Confidence:        confidence,
		Reasoning:         h.explain(winner, op, terms[winner]),
		Stage:             StageHeuristic,
		SignalsConsidered: signals,
	}
}

// selectWinner picks the top-scoring agent. Exact ties break on the number of
// distinct matched terms, then on registry priority order.
func (h *HeuristicClassifier) selectWinner(scores map[string]float64, terms map[string][]string) (winner string, top, runnerUp float64, tied bool) {
	for _, id := range h.registry.IDs() {
		score, ok := scores[id]
		if !ok {
			continue
		}
		switch {
		case winner == "" || score > top:
			if winner != "" {
				runnerUp = top
			}
			winner, top = id, score
			tied = false
		case score == top:
			tied = true
			if distinctTermCount(terms[id]) > distinctTermCount(terms[winner]) {
				winner = id
			}
			runnerUp = score
		case score > runnerUp:
			runnerUp = score
		}
	}
	return winner, top, runnerUp, tied
}

func (h *HeuristicClassifier) confidenceFor(winner string, top, runnerUp float64, tied bool, signals []ClassificationSignal) Confidence {
	if tied || top < NearZeroScore {
		return ConfidenceLow
	}

	hasStrongSignal := false
	for _, s := range signals {
		if s.CandidateAgent == winner && s.Weight > BaselineWeight {
			hasStrongSignal = true
			break
		}
	}
	if hasStrongSignal {
		if runnerUp == 0 {
			if top >= HighScoreFloor {
				return ConfidenceHigh
			}
		} else if top >= runnerUp*h.highRatio {
			return ConfidenceHigh
		}
	}
	return ConfidenceMedium
}

func distinctTermCount(terms []string) int {
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		seen[t] = true
	}
	return len(seen)
}

func (h *HeuristicClassifier) explain(agent string, op Operation, matched []string) string {
	seen := make(map[string]bool, len(matched))
	distinct := make([]string, 0, len(matched))
	for _, t := range matched {
		if !seen[t] {
			seen[t] = true
			distinct = append(distinct, t)
		}
	}
	sort.Strings(distinct)
	if len(distinct) > 3 {
		distinct = distinct[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "keyword evidence for %s", agent)
	if len(distinct) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(distinct, ", "))
	}
	if op != OperationUnknown {
		fmt.Fprintf(&b, " with %s intent", op)
	}
	return b.String()
}

// disambiguateEntity attributes a detected person name to an agent whose
// vocabulary appears in the surrounding context window. Only agents that
// commonly deal with named people participate.
func (h *HeuristicClassifier) disambiguateEntity(ec EntityContext) (string, []string) {
	candidates := []string{AgentEmployee, AgentClient, AgentUser}
	for _, agent := range candidates {
		desc, ok := h.registry.Get(agent)
		if !ok {
			continue
		}
		for _, kw := range desc.Keywords {
			term := normalizeMessage(kw)
			if term == "" {
				continue
			}
			if matchTerm(ec.ContextWindow, term) {
				return agent, []string{term}
			}
		}
	}
	return "", nil
}
