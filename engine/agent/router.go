package agent

import (
	"github.com/onboardkit/onboardkit/engine/core"
)

// Route is the decision router: a pure function over the intent, total on
// the four-category domain. Critical issues take the escalation path; every
// other intent takes the answer-generation path.
func Route(st *core.State) {
	if st.Intent == core.IntentCriticalIssue {
		st.PrimaryRoute = core.RouteEscalation
		st.NeedsEscalation = true
		return
	}
	st.PrimaryRoute = core.RouteResponseGeneration
	st.NeedsEscalation = false
}
