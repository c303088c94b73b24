package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/attache-ai/attache/ai/core/llm"
	"github.com/attache-ai/attache/ai/internal/strutil"
)

// Primary classifier failure modes. The router treats each of these as a
// trigger for the heuristic fallback.
var (
	ErrUnknownAgent  = errors.New("model selected an agent outside the registry")
	ErrLowConfidence = errors.New("model confidence below the acceptance threshold")
	ErrNoToolCall    = errors.New("model returned no routing tool call")
	ErrRateLimited   = errors.New("primary classifier rate limit exceeded")
)

const routeToolName = "route_to_agent"

// MaxHistoryMessages bounds the conversation history forwarded to the model.
// Routing only needs recent context; older turns add tokens without signal.
const MaxHistoryMessages = 6

const routeSystemPrompt = `You are the routing layer of a consulting management assistant.
Assign the user's request to exactly one specialist agent:

- client_agent: client companies, contacts, and client records
- contract_agent: contracts, agreements, terms, renewals, and billing schedules
- employee_agent: employees, contractors, hiring, onboarding, and HR fields
- deliverable_agent: deliverables, milestones, tasks, and project progress
- time_agent: timesheets, time entries, and logged hours
- billing_agent: invoices, payments, and receivables
- user_agent: application users, accounts, profiles, and permissions

Call route_to_agent exactly once. State your reasoning in one sentence and
report your confidence honestly: use "low" whenever the request is ambiguous
or could belong to several agents. When a request mentions both a person and a
record change, route by the record being changed, not the person's role.`

type routeToolArgs struct {
	Agent      string `json:"agent"`
	Reasoning  string `json:"reasoning"`
	Confidence string `json:"confidence"`
}

// PrimaryClassifierConfig tunes the model-backed classifier.
type PrimaryClassifierConfig struct {
	// Timeout bounds a single classification call. Zero means 3 seconds.
	Timeout time.Duration
	// MinConfidence is the lowest model confidence accepted as a decision.
	// Empty means medium.
	MinConfidence Confidence
	// RatePerSecond caps model calls; zero disables the limiter.
	RatePerSecond float64
}

// PrimaryClassifier asks the language model to pick an agent through a forced
// tool call. Any malformed, out-of-registry, or under-confident answer is
// returned as an error so the caller can fall back.
type PrimaryClassifier struct {
	llm           llm.Service
	registry      *AgentRegistry
	tool          llm.ToolDescriptor
	timeout       time.Duration
	minConfidence Confidence
	limiter       *rate.Limiter
}

// NewPrimaryClassifier builds the model-backed classifier over a registry.
func NewPrimaryClassifier(service llm.Service, registry *AgentRegistry, cfg PrimaryClassifierConfig) *PrimaryClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	minConf := cfg.MinConfidence
	if confidenceRank[minConf] == 0 {
		minConf = ConfidenceMedium
	}
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), int(cfg.RatePerSecond)+1)
	}
	return &PrimaryClassifier{
		llm:           service,
		registry:      registry,
		tool:          buildRouteTool(registry),
		timeout:       timeout,
		minConfidence: minConf,
		limiter:       limiter,
	}
}

func buildRouteTool(registry *AgentRegistry) llm.ToolDescriptor {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": map[string]any{
				"type":        "string",
				"enum":        registry.IDs(),
				"description": "The specialist agent that should handle the request",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One sentence explaining the choice",
			},
			"confidence": map[string]any{
				"type": "string",
				"enum": []string{"high", "medium", "low"},
			},
		},
		"required": []string{"agent", "reasoning", "confidence"},
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return llm.ToolDescriptor{
		Name:        routeToolName,
		Description: "Route the user's request to exactly one specialist agent",
		Parameters:  string(raw),
	}
}

// Classify asks the model to route the message. History gives the model
// conversational context but is never part of the returned decision; only the
// most recent MaxHistoryMessages turns are forwarded.
func (p *PrimaryClassifier) Classify(ctx context.Context, message string, history []llm.Message) (*RoutingDecision, error) {
	if p.limiter != nil && !p.limiter.Allow() {
		return nil, ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}
	messages := llm.FormatMessages(routeSystemPrompt, message, history)

	start := time.Now()
	resp, stats, err := p.llm.ChatWithTools(ctx, messages, []llm.ToolDescriptor{p.tool})
	if err != nil {
		return nil, errors.Wrap(err, "primary classification call failed")
	}

	args, err := p.parseToolCall(resp)
	if err != nil {
		slog.Warn("Primary classifier returned unusable response",
			"error", err,
			"content", strutil.Truncate(resp.Content, 80))
		return nil, err
	}

	confidence, ok := ParseConfidence(args.Confidence)
	if !ok {
		return nil, fmt.Errorf("tool call reported unknown confidence %q", args.Confidence)
	}
	if !p.registry.Has(args.Agent) {
		return nil, errors.Wrapf(ErrUnknownAgent, "agent %q", args.Agent)
	}
	if !confidence.AtLeast(p.minConfidence) {
		return nil, errors.Wrapf(ErrLowConfidence, "model reported %s", confidence)
	}

	slog.Info("Primary classification succeeded",
		"agent", args.Agent,
		"confidence", string(confidence),
		"duration_ms", time.Since(start).Milliseconds(),
		"tokens", statsTokens(stats),
		"message", strutil.Truncate(message, 50))

	return &RoutingDecision{
		SelectedAgent: args.Agent,
		Confidence:    confidence,
		Reasoning:     strings.TrimSpace(args.Reasoning),
		Stage:         StagePrimary,
		SignalsConsidered: []ClassificationSignal{{
			Source:         SourcePrimary,
			CandidateAgent: args.Agent,
			Weight:         1.0,
		}},
	}, nil
}

func (p *PrimaryClassifier) parseToolCall(resp *llm.ChatResponse) (*routeToolArgs, error) {
	if resp == nil || len(resp.ToolCalls) == 0 {
		return nil, ErrNoToolCall
	}
	for _, call := range resp.ToolCalls {
		if call.Function.Name != routeToolName {
			continue
		}
		var args routeToolArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return nil, errors.Wrap(err, "malformed routing tool arguments")
		}
		if args.Agent == "" {
			return nil, fmt.Errorf("routing tool call missing agent")
		}
		return &args, nil
	}
	return nil, ErrNoToolCall
}

func statsTokens(stats *llm.CallStats) int {
	if stats == nil {
		return 0
	}
	return stats.TotalTokens
}
