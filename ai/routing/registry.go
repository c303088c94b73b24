package routing

import (
	"fmt"
)

// Known agent identifiers for the consulting assistant.
const (
	AgentClient      = "client_agent"
	AgentContract    = "contract_agent"
	AgentEmployee    = "employee_agent"
	AgentDeliverable = "deliverable_agent"
	AgentTime        = "time_agent"
	AgentBilling     = "billing_agent"
	AgentUser        = "user_agent"
)

// AgentRegistry holds the closed set of routable agents.
// The set is built at startup and read-only afterwards; no classifier may
// select an agent outside it. Registration order doubles as the deterministic
// tie-break priority: earlier agents win exact ties that distinct-term counts
// cannot break.
type AgentRegistry struct {
	descriptors map[string]*AgentDescriptor
	priority    []string
}

// NewAgentRegistry creates a registry from the given descriptors.
// Descriptor order defines the tie-break priority.
func NewAgentRegistry(descriptors []AgentDescriptor) (*AgentRegistry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("agent registry requires at least one descriptor")
	}

	r := &AgentRegistry{
		descriptors: make(map[string]*AgentDescriptor, len(descriptors)),
		priority:    make([]string, 0, len(descriptors)),
	}
	for i := range descriptors {
		d := descriptors[i]
		if d.ID == "" {
			return nil, fmt.Errorf("agent descriptor %d has empty id", i)
		}
		if _, exists := r.descriptors[d.ID]; exists {
			return nil, fmt.Errorf("duplicate agent id %q", d.ID)
		}
		r.descriptors[d.ID] = &d
		r.priority = append(r.priority, d.ID)
	}
	return r, nil
}

// Get returns the descriptor for an agent id.
func (r *AgentRegistry) Get(id string) (*AgentDescriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// Has reports whether the agent id belongs to the registry.
func (r *AgentRegistry) Has(id string) bool {
	_, ok := r.descriptors[id]
	return ok
}

// IDs returns the agent ids in priority order.
func (r *AgentRegistry) IDs() []string {
	ids := make([]string, len(r.priority))
	copy(ids, r.priority)
	return ids
}

// Descriptors returns the descriptors in priority order.
func (r *AgentRegistry) Descriptors() []*AgentDescriptor {
	out := make([]*AgentDescriptor, 0, len(r.priority))
	for _, id := range r.priority {
		out = append(out, r.descriptors[id])
	}
	return out
}

// First returns the highest-priority agent id, used as the zero-evidence default.
func (r *AgentRegistry) First() string {
	return r.priority[0]
}

// Len returns the number of registered agents.
func (r *AgentRegistry) Len() int {
	return len(r.priority)
}

// DefaultRegistry builds the consulting-domain agent set.
// Priority order: client > contract > employee > deliverable > time > billing > user.
func DefaultRegistry() *AgentRegistry {
	registry, err := NewAgentRegistry([]AgentDescriptor{
		{
			ID: AgentClient,
			Keywords: []string{
				"client", "clients", "customer", "customers", "company", "business",
				"organization", "contact", "contacts", "contact person", "primary contact",
				"client contact", "company name", "contact email", "contact phone", "industry",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.0,
				OperationRead:   0.5,
				OperationUpdate: 1.0,
				OperationDelete: 0.5,
			},
		},
		{
			ID: AgentContract,
			Keywords: []string{
				"contract", "contracts", "agreement", "agreements", "new contract",
				"contract terms", "contract amount", "contract type", "renewal",
				"termination", "fixed price", "retainer", "payment terms",
				"billing date", "billing frequency",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.5,
				OperationRead:   0.5,
				OperationUpdate: 1.5,
				OperationDelete: 0.5,
			},
		},
		{
			ID: AgentEmployee,
			Keywords: []string{
				"employee", "employees", "staff", "personnel", "contractor", "consultant",
				"hire", "hiring", "onboard", "onboarding", "recruit", "new employee",
				"new hire", "employee number", "staff id", "job title", "salary", "wage",
				"hourly rate", "department", "full time", "part time", "payroll",
				"human resources",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.5,
				OperationRead:   0.5,
				OperationUpdate: 1.0,
				OperationDelete: 1.0,
			},
		},
		{
			ID: AgentDeliverable,
			Keywords: []string{
				"deliverable", "deliverables", "milestone", "milestones", "task", "tasks",
				"project", "projects", "due date", "deadline", "progress", "work item",
				"project status",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.0,
				OperationRead:   0.5,
				OperationUpdate: 1.0,
			},
		},
		{
			ID: AgentTime,
			Keywords: []string{
				"timesheet", "timesheets", "time entry", "time tracking", "log hours",
				"track time", "hours", "billable hours", "work hours", "overtime",
				"productivity",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.0,
				OperationRead:   0.5,
				OperationUpdate: 0.5,
			},
		},
		{
			ID: AgentBilling,
			Keywords: []string{
				"invoice", "invoices", "invoicing", "payment", "payments",
				"billing statement", "outstanding balance", "receivable", "receivables",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.0,
				OperationRead:   0.5,
				OperationUpdate: 1.0,
			},
		},
		{
			ID: AgentUser,
			Keywords: []string{
				"user", "users", "account", "accounts", "profile", "password", "login",
				"permission", "permissions", "user account", "account settings",
				"access", "role",
			},
			OperationAffinity: map[Operation]float64{
				OperationCreate: 1.0,
				OperationRead:   0.5,
				OperationUpdate: 1.0,
				OperationDelete: 1.0,
			},
		},
	})
	if err != nil {
		// Static configuration; an error here is a programming mistake.
		panic(err)
	}
	return registry
}
