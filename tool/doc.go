// Package tool defines the capability set the agent loop can dispatch into
// and the registry that routes decoded protocol messages to it.
//
// Tools take a single raw argument string and return a textual observation;
// tools with more than one logical argument do their own sub-splitting of
// the raw string (see ForWorld's update_map binding). Dispatch results are
// a tagged Outcome value rather than an error escape: an unknown tool name
// or a recovered tool panic becomes an error-tagged observation the loop
// records and survives, never a fault that propagates out of the run.
package tool
