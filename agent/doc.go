// Package agent implements the explorer's decision loop.
//
// The loop is a small, strictly sequential state machine: it asks a
// DecisionSource for the next protocol message, decodes it, dispatches
// the decoded action through a tool registry, and appends the resulting
// observation to the conversation history. Each iteration runs to
// completion before the next begins; there is no background work and no
// shared mutable state.
//
// A run ends in exactly one of four terminal states:
//
//   - StatusGoalReached: a tool observation matched the success predicate
//   - StatusFinalAnswer: the decision source emitted a final-answer message
//   - StatusProtocolFailure: a message could not be decoded
//   - StatusBudgetExhausted: the step budget ran out first
//
// The DecisionSource interface is the seam between the loop and whatever
// produces decisions. The planner package ships a deterministic
// path-planning source; anything speaking the same text protocol (a real
// LLM included) can be plugged in instead.
//
// Example:
//
//	loop, err := agent.NewLoop(source, registry,
//		agent.WithStepBudget(25),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := loop.Run(ctx)
package agent
