package core

import "context"

// Agent is the capability surface the coordinator consumes. Implementations
// receive their own observation slice each step and answer with a Proposal.
//
// Propose must not mutate the observation. A returned error excludes the
// agent from ranking for that step only; it is never fatal to the run.
type Agent interface {
	// ID returns the stable agent identifier used as the key in
	// observation, reward, and action mappings.
	ID() string

	// Propose produces the agent's candidate action and utility estimate
	// for the given observation slice.
	Propose(ctx context.Context, obs Observation) (Proposal, error)
}

// FeedbackReceiver is optionally implemented by agents that want the merged
// transition after each committed step. The orchestrator type-asserts for it;
// agents without feedback needs simply omit the method.
type FeedbackReceiver interface {
	Feedback(t Transition)
}
