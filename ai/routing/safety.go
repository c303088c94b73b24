package routing

// SafetyClassifier is the terminal stage of the fallback chain. It cannot
// fail: every message maps to the default agent at low confidence with no
// signals attached.
type SafetyClassifier struct {
	defaultAgent string
}

// NewSafetyClassifier builds the terminal fallback. An unknown or empty
// default resolves to the registry's first agent.
func NewSafetyClassifier(registry *AgentRegistry, defaultAgent string) *SafetyClassifier {
	if defaultAgent == "" || !registry.Has(defaultAgent) {
		defaultAgent = registry.First()
	}
	return &SafetyClassifier{defaultAgent: defaultAgent}
}

// Classify always succeeds.
func (s *SafetyClassifier) Classify(message string) *RoutingDecision {
	return &RoutingDecision{
		SelectedAgent:     s.defaultAgent,
		Confidence:        ConfidenceLow,
		Reasoning:         "default fallback",
		Stage:             StageSafety,
		SignalsConsidered: nil,
	}
}
