// Package grid models the bounded grid world the explorer agent operates in.
//
// A Layout is an immutable rectangular matrix of cell kinds (Open, Wall,
// Goal) fixed at construction. A World couples a Layout with the agent's
// mutable position and its map memory, and exposes the four movement and
// observation primitives the agent's tools are built on: CurrentPosition,
// LookAround, Move, and RecordObservation.
//
// Every primitive returns a short tagged observation string. The
// distinguishing substrings of those observations (see TagSuccess and
// friends) are a contract: the agent loop's termination check and any
// external decision source pattern-match on them, so they must remain
// stable.
package grid
