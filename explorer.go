package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gridmind-ai/sdk/agent"
	"github.com/gridmind-ai/sdk/grid"
	"github.com/gridmind-ai/sdk/memory"
	"github.com/gridmind-ai/sdk/planner"
	"github.com/gridmind-ai/sdk/protocol"
	"github.com/gridmind-ai/sdk/registry"
	"github.com/gridmind-ai/sdk/scenario"
	"github.com/gridmind-ai/sdk/tool"
)

// Explorer assembles a scenario into a runnable exploration: the grid
// world, its tool set, the decision source, and the agent loop.
//
// Each call to Run builds a fresh world at the scenario's start position,
// so runs are independent. An Explorer is safe to run repeatedly but not
// concurrently.
type Explorer struct {
	logger       *slog.Logger
	cfg          explorerConfig
	scenario     *scenario.Config
	layout       *grid.Layout
	start        grid.Position
	predicate    agent.SuccessPredicate
	stepBudget   int
	registry     registry.Registry
	ownsRegistry bool
}

// NewExplorer creates an Explorer with the provided options.
//
// Without options it explores the built-in demo scenario with the
// deterministic path-planning decision source.
//
// Example:
//
//	explorer, err := sdk.NewExplorer(
//	    sdk.WithScenarioFile("scenario.yaml"),
//	    sdk.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer explorer.Close()
//
//	result, err := explorer.Run(context.Background())
func NewExplorer(opts ...ExplorerOption) (*Explorer, error) {
	cfg := explorerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	sc := cfg.scenario
	if sc == nil && cfg.scenarioPath != "" {
		loaded, err := scenario.Load(cfg.scenarioPath)
		if err != nil {
			return nil, NewConfigurationError("NewExplorer", err)
		}
		sc = loaded
	}
	if sc == nil {
		sc = scenario.Default()
	}
	if err := sc.Validate(); err != nil {
		return nil, NewValidationError("NewExplorer", err)
	}

	layout, err := sc.Layout()
	if err != nil {
		return nil, NewValidationError("NewExplorer", err)
	}

	predicate := cfg.predicate
	if predicate == nil && cfg.successExpr != "" {
		predicate, err = agent.CompileSuccessExpression(cfg.successExpr)
		if err != nil {
			return nil, NewConfigurationError("NewExplorer", err)
		}
	}
	if predicate == nil {
		predicate = agent.SuccessSubstring(sc.GetSuccessToken())
	}

	budget := cfg.stepBudget
	if budget <= 0 {
		budget = sc.GetStepBudget()
	}

	e := &Explorer{
		logger:     cfg.logger,
		cfg:        cfg,
		scenario:   sc,
		layout:     layout,
		start:      sc.StartPosition(),
		predicate:  predicate,
		stepBudget: budget,
		registry:   cfg.registry,
	}

	if e.registry == nil && cfg.registryEnv {
		client, err := registry.NewClientFromEnv()
		if err != nil {
			return nil, NewNetworkError("NewExplorer", err)
		}
		if client != nil {
			e.registry = client
			e.ownsRegistry = true
		}
	}

	return e, nil
}

// Scenario returns the scenario this explorer runs.
func (e *Explorer) Scenario() *scenario.Config {
	return e.scenario
}

// Run executes one exploration of the scenario.
//
// A fresh world is built at the scenario's start position, the tool set
// is bound to it, and the agent loop drives the decision source until a
// terminal state. When a registry is configured the run registers itself
// before the first step and deregisters when it ends.
func (e *Explorer) Run(ctx context.Context) (agent.Result, error) {
	runID := uuid.NewString()

	memLog := e.cfg.memoryLog
	if memLog == nil {
		fresh := memory.NewInMemoryLog()
		defer CloseWithLog(fresh, e.logger, "memory log")
		memLog = fresh
	}

	world, err := grid.NewWorld(e.layout, e.start,
		grid.WithMemoryLog(memLog),
		grid.WithLogger(e.logger),
	)
	if err != nil {
		return agent.Result{}, NewInternalError("Explorer.Run", err)
	}

	tools := tool.NewRegistry(e.logger)
	if err := tool.RegisterWorld(tools, world); err != nil {
		return agent.Result{}, NewInternalError("Explorer.Run", err)
	}

	source := e.cfg.source
	if source == nil {
		oracle := planner.NewOracle(e.layout, world.CurrentPosition,
			planner.WithLogger(e.logger))
		source = agent.SourceFunc(func(ctx context.Context, _ []agent.Entry) (string, error) {
			return oracle.Next(ctx)
		})
	}

	observer := e.cfg.observer
	if e.registry != nil {
		info := registry.RunInfo{
			RunID:    runID,
			Scenario: e.scenario.Name,
			Position: world.CurrentPosition().String(),
			Metadata: map[string]string{
				"step_budget": fmt.Sprint(e.stepBudget),
			},
			StartedAt: time.Now(),
		}
		if err := e.registry.Register(ctx, info); err != nil {
			e.logger.Warn("run registration failed", "run_id", runID, "error", err)
		} else {
			defer func() {
				deregCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := e.registry.Deregister(deregCtx, runID); err != nil {
					e.logger.Warn("run deregistration failed", "run_id", runID, "error", err)
				}
			}()

			userObserver := observer
			observer = func(entry agent.Entry) {
				if userObserver != nil {
					userObserver(entry)
				}
				if entry.Role != protocol.RoleObservation {
					return
				}
				if err := e.registry.Heartbeat(ctx, runID, world.CurrentPosition().String()); err != nil {
					e.logger.Debug("heartbeat failed", "run_id", runID, "error", err)
				}
			}
		}
	}

	loopOpts := []agent.LoopOption{
		agent.WithRunID(runID),
		agent.WithLogger(e.logger),
		agent.WithStepBudget(e.stepBudget),
		agent.WithSuccessPredicate(e.predicate),
	}
	if e.cfg.tracer != nil {
		loopOpts = append(loopOpts, agent.WithTracer(e.cfg.tracer))
	}
	if e.cfg.meter != nil {
		loopOpts = append(loopOpts, agent.WithMeter(e.cfg.meter))
	}
	if observer != nil {
		loopOpts = append(loopOpts, agent.WithObserver(observer))
	}

	loop, err := agent.NewLoop(source, tools, loopOpts...)
	if err != nil {
		return agent.Result{}, NewInternalError("Explorer.Run", err)
	}

	result, err := loop.Run(ctx)
	if err != nil {
		return result, NewExecutionError("Explorer.Run", err)
	}
	return result, nil
}

// Close releases resources the explorer owns, such as a registry client
// created by WithRegistryFromEnv. Resources passed in by the caller
// (memory logs, registries) are not closed.
func (e *Explorer) Close() error {
	if e.ownsRegistry && e.registry != nil {
		return e.registry.Close()
	}
	return nil
}
