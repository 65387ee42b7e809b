package core

// Intent is the classifier-assigned category of a user query.
type Intent string

const (
	IntentPolicyQuestion Intent = "policy_question"
	IntentITQuestion     Intent = "it_question"
	IntentCriticalIssue  Intent = "critical_issue"
	IntentAmbiguous      Intent = "ambiguous"
)

// ValidIntent reports whether the value is one of the four fixed categories.
func ValidIntent(v Intent) bool {
	switch v {
	case IntentPolicyQuestion, IntentITQuestion, IntentCriticalIssue, IntentAmbiguous:
		return true
	}
	return false
}

// PrimaryRoute is the router's decision between the answer-generation path
// and the escalation path.
type PrimaryRoute string

const (
	RouteResponseGeneration PrimaryRoute = "response_generation"
	RouteEscalation         PrimaryRoute = "escalation"
)

// GenerationRoute is the path decider's choice within the answer-generation
// path. It is only ever set after PrimaryRoute == RouteResponseGeneration.
type GenerationRoute string

const (
	RouteNeedsRAG     GenerationRoute = "needs_rag"
	RouteDirectAnswer GenerationRoute = "direct_answer"
)

// RetrievedDoc is one similarity-search match, in descending relevance order
// as returned by the retrieval backend.
type RetrievedDoc struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

// TicketInfo records the outcome of a ticket-creation attempt.
type TicketInfo struct {
	Status   string `json:"status"`
	TicketID string `json:"ticket_id,omitempty"`
	Message  string `json:"message"`
}

// State is the single mutable record threaded through one graph traversal.
// Each traversal owns its State exclusively; nothing is shared or reused
// across queries. UserQuery is set once at creation and never mutated.
type State struct {
	UserQuery       string
	RewrittenQuery  string
	Intent          Intent
	PrimaryRoute    PrimaryRoute
	GenerationRoute GenerationRoute
	RetrievedDocs   []RetrievedDoc
	NeedsEscalation bool
	Answer          string
	TicketInfo      *TicketInfo
}

// NewState builds a fresh State for one incoming query with every other
// field at its zero value.
func NewState(userQuery string) *State {
	return &State{UserQuery: userQuery}
}

// RetrievalQuery returns the rewritten query when one was produced, falling
// back to the raw user query.
func (s *State) RetrievalQuery() string {
	if s.RewrittenQuery != "" {
		return s.RewrittenQuery
	}
	return s.UserQuery
}

// RouteTaken reports the effective terminal route of the traversal:
// "escalation" when the query escalated, otherwise the generation route
// ("needs_rag" or "direct_answer") once the path decider has run.
func (s *State) RouteTaken() string {
	if s.PrimaryRoute == RouteEscalation {
		return string(RouteEscalation)
	}
	if s.GenerationRoute != "" {
		return string(s.GenerationRoute)
	}
	return string(s.PrimaryRoute)
}
