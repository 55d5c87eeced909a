// Package scheduler is the runtime kernel: it drives the run loop over a
// workflow graph, resolving execution order dynamically from dependency
// satisfaction instead of a precomputed static order. Exactly one node
// capability is in flight at any time; an unverified, possibly cyclic graph
// is made safe to run by deadlock detection and an iteration cap.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nodeflow/nodeflow/pkg/eventbus"
	"github.com/nodeflow/nodeflow/pkg/events"
	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/otelhelper"
	"github.com/nodeflow/nodeflow/pkg/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxIterations bounds the run loop against graphs that keep
// re-activating nodes without ever draining the pending set.
const DefaultMaxIterations = 1000

// Scheduler executes workflows. It is stateless across runs: every run
// gets its own execution context, so one scheduler may serve many
// concurrent runs of the same read-only workflow.
type Scheduler struct {
	maxIterations int
	logger        *slog.Logger
	publisher     eventbus.EventPublisher
	tracer        trace.Tracer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxIterations overrides the run loop iteration budget.
func WithMaxIterations(limit int) Option {
	return func(s *Scheduler) {
		if limit > 0 {
			s.maxIterations = limit
		}
	}
}

// WithLogger sets the logger used for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithPublisher mirrors execution milestones onto an event bus in addition
// to the per-run event log.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(s *Scheduler) {
		s.publisher = publisher
	}
}

// WithTracer enables spans around the run and each node dispatch.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = tracer
	}
}

// New creates a scheduler with the default iteration budget.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes the workflow and returns the run summary. The summary
// carries the final status, a results snapshot, the terminal error if any
// and the event count. The returned error is non-nil exactly when the run
// failed.
func (s *Scheduler) Run(ctx context.Context, wf *workflow.Workflow, initialData map[string]any) (*execution.Summary, error) {
	state, err := s.Execute(ctx, wf, initialData)

	return state.Summary(), err
}

// Execute runs the workflow and hands back the full execution state for
// inspection, whether the run succeeded or failed. Partial results
// accumulated before a failure remain present in the state.
func (s *Scheduler) Execute(ctx context.Context, wf *workflow.Workflow, initialData map[string]any) (*execution.Context, error) {
	state := execution.NewContext(wf.ID, generateExecutionID(), seedVariables(wf, initialData))

	logger := s.logger.With(
		"module", "scheduler",
		"workflow_id", wf.ID,
		"execution_id", state.ExecutionID,
	)
	logger.Info("Starting workflow execution", "nodes", len(wf.Nodes))

	if s.tracer != nil {
		var span trace.Span

		ctx, span = s.tracer.Start(ctx, "workflow.execute", trace.WithAttributes(
			attribute.String(otelhelper.WorkflowIDKey, wf.ID),
			attribute.String(otelhelper.WorkflowNameKey, wf.Name),
			attribute.String(otelhelper.ExecutionIDKey, state.ExecutionID),
		))
		defer span.End()
	}

	startedAt := time.Now()

	state.AddEvent(execution.Event{
		Type:     execution.ExecutionStartedEvent,
		Metadata: map[string]any{"workflow_id": wf.ID},
	})
	s.publish(ctx, logger, events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, wf.ID, state.ExecutionID),
		InitialData: initialData,
	})

	for _, nodeID := range s.startNodes(wf) {
		state.MarkNodePending(nodeID)
	}

	runErr := s.runLoop(ctx, wf, state, logger)

	if runErr != nil {
		state.Status = execution.StatusFailed
		state.Error = runErr.Error()
		state.AddEvent(execution.Event{
			Type:  execution.ExecutionFailedEvent,
			Error: runErr.Error(),
		})
		s.publish(ctx, logger, events.ExecutionFailed{
			BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, wf.ID, state.ExecutionID),
			Error:     runErr.Error(),
			Duration:  time.Since(startedAt),
		})
		logger.Error("Workflow execution failed", "error", runErr)

		return state, runErr
	}

	state.Status = execution.StatusCompleted
	state.AddEvent(execution.Event{Type: execution.ExecutionCompletedEvent})
	s.publish(ctx, logger, events.ExecutionCompleted{
		BaseEvent:  events.NewBaseEvent(events.ExecutionCompletedEvent, wf.ID, state.ExecutionID),
		EventCount: len(state.Events()),
		Duration:   time.Since(startedAt),
	})
	logger.Info("Workflow execution completed",
		"completed_nodes", len(state.CompletedNodes()),
		"duration", time.Since(startedAt))

	return state, nil
}

// runLoop drains the pending set one ready node at a time, bounded by the
// iteration budget. It returns the first fatal error, or nil on normal
// exhaustion.
func (s *Scheduler) runLoop(ctx context.Context, wf *workflow.Workflow, state *execution.Context, logger *slog.Logger) error {
	iterations := 0

	for state.PendingCount() > 0 && iterations < s.maxIterations {
		iterations++

		nodeID, ok := s.selectReady(wf, state)
		if !ok {
			pending := state.PendingNodes()
			state.AddEvent(execution.Event{
				Type:     execution.ExecutionDeadlockEvent,
				Metadata: map[string]any{"pending_nodes": pending},
			})

			return &DeadlockError{Pending: pending}
		}

		if err := s.dispatch(ctx, wf, state, nodeID, logger); err != nil {
			return err
		}
	}

	if state.PendingCount() > 0 {
		state.AddEvent(execution.Event{
			Type:     execution.IterationLimitEvent,
			Metadata: map[string]any{"max_iterations": s.maxIterations},
		})

		return &IterationLimitError{Limit: s.maxIterations}
	}

	return nil
}

// publish mirrors an event to the bus when one is configured. Bus failures
// never affect the run.
func (s *Scheduler) publish(ctx context.Context, logger *slog.Logger, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, string(event.GetType()), event); err != nil {
		logger.Warn("Failed to publish execution event", "event_type", event.GetType(), "error", err)
	}
}

func seedVariables(wf *workflow.Workflow, initialData map[string]any) map[string]any {
	seeded := make(map[string]any, len(wf.Variables)+len(initialData))

	for name, value := range wf.Variables {
		seeded[name] = value
	}

	for name, value := range initialData {
		seeded[name] = value
	}

	return seeded
}

// generateExecutionID generates a unique execution ID.
func generateExecutionID() string {
	return fmt.Sprintf("exec-%s", uuid.New().String()[:8])
}
