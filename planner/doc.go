// Package planner computes shortest obstacle-avoiding routes through a grid
// layout and exposes a deterministic decision source built on them.
//
// ShortestPath runs breadth-first search over the grid graph: cells are
// nodes, legal single-step cardinal moves are edges, and every edge costs
// one move. BFS is exact for unweighted shortest path and runs in
// O(rows * cols) time and space, which is the right trade for a small,
// static state space where a guaranteed-shortest, reproducible answer
// matters more than heuristics. Ties between equal-length paths are broken
// by the fixed direction order grid.Directions at each expansion, so
// identical inputs always produce identical plans.
//
// A Plan carries the origin it was computed from. Consumers compare the
// plan's origin against the agent's live position and recompute on any
// mismatch; a blocked or externally perturbed move invalidates the rest of
// the plan automatically.
//
// The Oracle type speaks the protocol package's reasoning-step format,
// standing in for an LLM: one Thought/Action/Action Input message per call,
// or a Final Answer when the run is over.
package planner
