package sdk

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridmind-ai/sdk/agent"
	"github.com/gridmind-ai/sdk/memory"
	"github.com/gridmind-ai/sdk/registry"
	"github.com/gridmind-ai/sdk/scenario"
)

// ExplorerOption configures an Explorer.
type ExplorerOption func(*explorerConfig)

// explorerConfig holds configuration collected by ExplorerOptions.
type explorerConfig struct {
	logger       *slog.Logger
	tracer       trace.Tracer
	meter        metric.Meter
	scenario     *scenario.Config
	scenarioPath string
	memoryLog    memory.Log
	registry     registry.Registry
	registryEnv  bool
	source       agent.DecisionSource
	stepBudget   int
	predicate    agent.SuccessPredicate
	successExpr  string
	observer     func(agent.Entry)
}

// WithLogger sets a custom logger for the explorer.
// If not provided, a default JSON logger writing to stdout is created.
func WithLogger(logger *slog.Logger) ExplorerOption {
	return func(c *explorerConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer; the loop creates a span per
// step. See NewTracerProvider for a logging provider suitable for local
// runs.
func WithTracer(tracer trace.Tracer) ExplorerOption {
	return func(c *explorerConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter; the loop records step counters
// and run duration histograms.
func WithMeter(meter metric.Meter) ExplorerOption {
	return func(c *explorerConfig) {
		c.meter = meter
	}
}

// WithScenario sets the scenario to explore. Takes precedence over
// WithScenarioFile. Without either, the built-in demo scenario is used.
func WithScenario(sc *scenario.Config) ExplorerOption {
	return func(c *explorerConfig) {
		c.scenario = sc
	}
}

// WithScenarioFile loads the scenario from a scenario.yaml path.
func WithScenarioFile(path string) ExplorerOption {
	return func(c *explorerConfig) {
		c.scenarioPath = path
	}
}

// WithMemoryLog sets the map-memory store shared by all runs of this
// explorer. The caller keeps ownership and is responsible for closing
// it. Without this option each run gets a fresh in-memory log.
func WithMemoryLog(log memory.Log) ExplorerOption {
	return func(c *explorerConfig) {
		c.memoryLog = log
	}
}

// WithRegistry sets a run registry; each run registers itself and
// heartbeats its position. The caller keeps ownership of the registry.
func WithRegistry(reg registry.Registry) ExplorerOption {
	return func(c *explorerConfig) {
		c.registry = reg
	}
}

// WithRegistryFromEnv connects to the run registry named by the
// GRIDMIND_REGISTRY_ENDPOINTS environment variable. If the variable is
// unset the explorer runs unregistered. The explorer owns the resulting
// client and closes it in Close.
func WithRegistryFromEnv() ExplorerOption {
	return func(c *explorerConfig) {
		c.registryEnv = true
	}
}

// WithDecisionSource replaces the default deterministic path-planning
// source. Any implementation speaking the Thought/Action/Action Input
// protocol works, an LLM-backed one included.
func WithDecisionSource(source agent.DecisionSource) ExplorerOption {
	return func(c *explorerConfig) {
		c.source = source
	}
}

// WithStepBudget overrides the scenario's step budget.
func WithStepBudget(budget int) ExplorerOption {
	return func(c *explorerConfig) {
		c.stepBudget = budget
	}
}

// WithSuccessPredicate replaces the goal-detection check applied to
// every tool observation. Takes precedence over WithSuccessExpression
// and the scenario's success token.
func WithSuccessPredicate(p agent.SuccessPredicate) ExplorerOption {
	return func(c *explorerConfig) {
		c.predicate = p
	}
}

// WithSuccessExpression compiles a CEL expression over the variables
// observation (string) and step (int) into the goal-detection check.
//
// Example:
//
//	sdk.WithSuccessExpression(`observation.contains("SUCCESS") && step <= 10`)
func WithSuccessExpression(expr string) ExplorerOption {
	return func(c *explorerConfig) {
		c.successExpr = expr
	}
}

// WithObserver registers a callback invoked for every history entry as
// it is appended. Useful for live console output.
func WithObserver(fn func(agent.Entry)) ExplorerOption {
	return func(c *explorerConfig) {
		c.observer = fn
	}
}
