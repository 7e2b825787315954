// Package protocol parses and generates the textual reasoning-step format
// spoken between the agent loop and its decision source.
//
// A decision message carries three labeled segments:
//
//	Thought: I computed a path of 6 steps to the goal. Next move is SOUTH.
//	Action: move_agent
//	Action Input: SOUTH
//
// or, for termination, a single final segment:
//
//	Final Answer: SUCCESS - agent reached the goal.
//
// Decoding is line-oriented and label-prefixed. The action input is passed
// through as one undivided string; tools that take multiple logical
// arguments do their own sub-splitting. A message with neither an action
// marker nor a final marker fails with ErrMalformedMessage, which is a
// terminal condition for the run, not a retryable one.
//
// This format is the sole interface between the loop and any decision
// source, which is what makes the deterministic planner swappable for an
// arbitrary oracle.
package protocol
