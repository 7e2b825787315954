// Package sdk provides the GridMind explorer SDK.
//
// GridMind runs autonomous explorer agents in grid worlds: a world is a
// rectangular grid of open, wall, and goal cells; an agent starts on an
// open cell and drives itself toward the goal through a small tool set,
// speaking a line-oriented Thought/Action/Action Input protocol.
//
// # Core Concepts
//
// The SDK is organized around several key concepts:
//
//   - Worlds: grid environments that answer movement and look-around
//     tool calls with tagged textual observations (package grid)
//   - Tools: the capability set an agent can invoke, dispatched by name
//     through a registry (package tool)
//   - Decision sources: anything that emits protocol messages; the
//     built-in one plans shortest paths deterministically (package
//     planner), but an LLM-backed source fits the same interface
//   - The loop: the state machine that requests decisions, dispatches
//     actions, and records observations until a terminal state (package
//     agent)
//   - Scenarios: YAML descriptions of a world, start position, and step
//     budget (package scenario)
//
// # Getting Started
//
// The Explorer assembles all of the above. With no options it explores
// the built-in demo world:
//
//	import "github.com/gridmind-ai/sdk"
//
//	explorer, err := sdk.NewExplorer()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer explorer.Close()
//
//	result, err := explorer.Run(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Status, result.Steps)
//
// # Custom Scenarios
//
// Scenarios load from YAML:
//
//	explorer, err := sdk.NewExplorer(
//		sdk.WithScenarioFile("scenario.yaml"),
//		sdk.WithStepBudget(50),
//	)
//
// # Custom Decision Sources
//
// Replace the deterministic planner with anything speaking the text
// protocol:
//
//	source := agent.SourceFunc(func(ctx context.Context, history []agent.Entry) (string, error) {
//		// Ask an LLM for the next Thought/Action/Action Input message.
//		return callModel(ctx, history)
//	})
//	explorer, err := sdk.NewExplorer(sdk.WithDecisionSource(source))
//
// # Observability
//
// The loop traces each step and records run metrics when given a tracer
// and meter. NewTracerProvider builds a provider that logs finished
// spans through slog, which is enough for local runs:
//
//	tp := sdk.NewTracerProvider(logger)
//	defer tp.Shutdown(context.Background())
//
//	explorer, err := sdk.NewExplorer(
//		sdk.WithTracer(sdk.NewTracer(tp)),
//	)
//
// # Error Handling
//
// The SDK uses structured errors with operation context:
//
//	result, err := explorer.Run(ctx)
//	if err != nil {
//		var sdkErr *sdk.SDKError
//		if errors.As(err, &sdkErr) {
//			log.Printf("operation %s failed (%s): %v", sdkErr.Op, sdkErr.Kind, sdkErr.Err)
//		}
//	}
package sdk
