package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridmind-ai/sdk/protocol"
	"github.com/gridmind-ai/sdk/tool"
)

// DefaultStepBudget is the iteration limit used when no budget is
// configured.
const DefaultStepBudget = 25

// DefaultSystemPrompt seeds the conversation history with the explorer's
// operating instructions. Decision sources that ignore history (such as
// the deterministic planner) never read it, but it is part of the run
// record and is the contract text an LLM-backed source would receive.
const DefaultSystemPrompt = `You are an autonomous explorer agent operating in a grid world.
Your sole goal is to find the goal tile and report the SUCCESS message.
Your current location is always (R, C).

You MUST build an explicit map in your Thought process based on past Observations.
Use the update_map tool to log every unique location and observation into your persistent memory.

Follow the Thought -> Action -> Observation pattern in a loop.

Available tools:
  move_agent(direction) - attempts to move the agent. Directions: NORTH, SOUTH, EAST, or WEST. Returns an OBSERVATION message.
  look_around()         - returns the state of your current location.
  update_map(pos, observation) - logs a key-value pair into memory. Use get_pos() for the pos argument.
  get_pos()             - returns your current position as a string tuple, e.g. '(1, 1)'.

Your response MUST strictly use the following format for tool calls:
Thought: [your reasoning]
Action: [tool name]
Action Input: [tool input, a single string]

If a tool result starts with "SUCCESS", your next response MUST be:
Final Answer: [report the success and the final path, if possible]`

// DefaultUserPrompt is the initial instruction that starts a run.
const DefaultUserPrompt = "Start exploration now. Find the goal efficiently."

// ErrNoDecisionSource is returned by NewLoop when no decision source is
// provided.
var ErrNoDecisionSource = errors.New("agent: decision source is required")

// ErrNoRegistry is returned by NewLoop when no tool registry is provided.
var ErrNoRegistry = errors.New("agent: tool registry is required")

// Loop drives a single explorer run.
//
// The zero value is not usable; construct with NewLoop. A Loop may be
// reused for multiple runs, each with a fresh run ID and history.
type Loop struct {
	source    DecisionSource
	tools     *tool.Registry
	logger    *slog.Logger
	tracer    trace.Tracer
	meter     metric.Meter
	metrics   *loopMetrics
	budget    int
	predicate SuccessPredicate

	systemPrompt string
	userPrompt   string
	runID        string

	observer func(Entry)
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithTracer enables per-step tracing. Without it no spans are created.
func WithTracer(tracer trace.Tracer) LoopOption {
	return func(l *Loop) {
		l.tracer = tracer
	}
}

// WithMeter enables run and step metrics. Without it no metrics are
// recorded.
func WithMeter(meter metric.Meter) LoopOption {
	return func(l *Loop) {
		l.meter = meter
	}
}

// WithStepBudget sets the hard iteration limit for a run.
// Non-positive values fall back to DefaultStepBudget.
func WithStepBudget(budget int) LoopOption {
	return func(l *Loop) {
		l.budget = budget
	}
}

// WithSuccessPredicate replaces the termination check applied to each
// tool observation. The default matches observations containing
// SuccessToken.
func WithSuccessPredicate(p SuccessPredicate) LoopOption {
	return func(l *Loop) {
		l.predicate = p
	}
}

// WithPrompts replaces the system and user prompts that seed the history.
func WithPrompts(system, user string) LoopOption {
	return func(l *Loop) {
		l.systemPrompt = system
		l.userPrompt = user
	}
}

// WithRunID fixes the run ID instead of generating one per run. Useful
// when an external coordinator (such as a run registry) needs to know
// the ID before the run starts.
func WithRunID(id string) LoopOption {
	return func(l *Loop) {
		l.runID = id
	}
}

// WithObserver registers a callback invoked for every entry appended to
// the history, in order. Useful for live output; the callback runs on
// the loop's goroutine and should return quickly.
func WithObserver(fn func(Entry)) LoopOption {
	return func(l *Loop) {
		l.observer = fn
	}
}

// NewLoop creates a Loop around a decision source and a tool registry.
func NewLoop(source DecisionSource, tools *tool.Registry, opts ...LoopOption) (*Loop, error) {
	if source == nil {
		return nil, ErrNoDecisionSource
	}
	if tools == nil {
		return nil, ErrNoRegistry
	}

	l := &Loop{
		source:       source,
		tools:        tools,
		logger:       slog.Default(),
		budget:       DefaultStepBudget,
		predicate:    SuccessSubstring(SuccessToken),
		systemPrompt: DefaultSystemPrompt,
		userPrompt:   DefaultUserPrompt,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.budget <= 0 {
		l.budget = DefaultStepBudget
	}
	if l.predicate == nil {
		l.predicate = SuccessSubstring(SuccessToken)
	}

	if l.meter != nil {
		metrics, err := initLoopMetrics(l.meter)
		if err != nil {
			return nil, fmt.Errorf("agent: init metrics: %w", err)
		}
		l.metrics = metrics
	}

	return l, nil
}

// Run executes one full exploration run.
//
// The run always ends in one of the four terminal statuses; tool faults
// and malformed messages never propagate as errors. The returned error
// is non-nil only when ctx is cancelled, in which case the Result holds
// the history accumulated so far.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	runID := l.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	result := Result{RunID: runID}
	logger := l.logger.With("run_id", result.RunID)

	record := func(role protocol.Role, content string) {
		e := newEntry(role, content)
		result.History = append(result.History, e)
		if l.observer != nil {
			l.observer(e)
		}
	}

	record(protocol.RoleSystem, l.systemPrompt)
	record(protocol.RoleUser, l.userPrompt)

	logger.Info("run started", "step_budget", l.budget)
	result.Status = StatusBudgetExhausted

	for step := 1; step <= l.budget; step++ {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(started)
			return result, err
		}
		result.Steps = step

		ctx, span := l.startStepSpan(ctx, result.RunID, step)

		message, err := l.source.Next(ctx, result.History)
		if err != nil {
			logger.Error("decision source failed", "step", step, "error", err)
			result.Status = StatusProtocolFailure
			result.Err = err
			l.endStepSpan(span, "", result.Status, err)
			break
		}
		record(protocol.RoleAssistant, message)

		decoded, err := protocol.Decode(message)
		if err != nil {
			logger.Error("undecodable message", "step", step, "error", err)
			result.Status = StatusProtocolFailure
			result.Err = err
			l.endStepSpan(span, "", result.Status, err)
			break
		}

		if decoded.IsFinal() {
			logger.Info("final answer received", "step", step)
			result.Status = StatusFinalAnswer
			result.FinalAnswer = decoded.Answer
			l.endStepSpan(span, "", result.Status, nil)
			break
		}

		logger.Debug("dispatching",
			"step", step,
			"action", decoded.Action,
			"input", decoded.Input,
		)
		out := l.tools.Dispatch(ctx, decoded.Action, decoded.Input)
		record(protocol.RoleObservation, out.Observation)
		l.recordStep(ctx, decoded.Action, out.Status)

		if l.predicate(out.Observation, step) {
			logger.Info("goal reached", "step", step)
			result.Status = StatusGoalReached
			l.endStepSpan(span, decoded.Action, result.Status, nil)
			break
		}
		l.endStepSpan(span, decoded.Action, "", nil)
	}

	result.Duration = time.Since(started)
	l.recordRun(ctx, result)
	logger.Info("run finished",
		"status", result.Status.String(),
		"steps", result.Steps,
		"duration", result.Duration,
	)
	return result, nil
}

func (l *Loop) startStepSpan(ctx context.Context, runID string, step int) (context.Context, trace.Span) {
	if l.tracer == nil {
		return ctx, nil
	}
	ctx, span := l.tracer.Start(ctx, "agent.step")
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.Int("agent.step", step),
	)
	return ctx, span
}

func (l *Loop) endStepSpan(span trace.Span, action string, terminal Status, err error) {
	if span == nil {
		return
	}
	if action != "" {
		span.SetAttributes(attribute.String("agent.action", action))
	}
	if terminal != "" {
		span.SetAttributes(attribute.String("agent.terminal_status", terminal.String()))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
