// Package wait provides the pause node: it sleeps for a configured
// duration or records the event it is waiting on.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nodeflow/nodeflow/pkg/execution"
	"github.com/nodeflow/nodeflow/pkg/models"
)

const (
	InputPortMain    = "main"
	OutputPortStatus = "status"
	OutputPortMsg    = "message"
)

// WaitNode pauses execution for a duration, or passes through while
// recording the event it would wait for. The sleep happens inside the
// node's own execution; the scheduler awaits it as one opaque unit.
type WaitNode struct {
	models.BaseNode

	duration time.Duration
	event    string
}

// NewWaitNode creates a wait node from its configuration.
func NewWaitNode(id string, config map[string]any) (*WaitNode, error) {
	name := "Wait"
	if n, ok := config["name"].(string); ok && n != "" {
		name = n
	}

	var duration time.Duration

	switch d := config["duration"].(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("invalid wait duration %q: %w", d, err)
		}

		duration = parsed
	case float64:
		duration = time.Duration(d * float64(time.Second))
	case int:
		duration = time.Duration(d) * time.Second
	case nil:
	default:
		return nil, fmt.Errorf("invalid wait duration type %T", d)
	}

	event, _ := config["event"].(string)

	if duration == 0 && event == "" {
		return nil, errors.New("wait node requires either 'duration' or 'event'")
	}

	node := &WaitNode{
		BaseNode: models.NewBaseNode(id, name, "Pauses execution for a duration or until an event"),
		duration: duration,
		event:    event,
	}

	node.AddInputPort(InputPortMain, "Upstream data passed through after the wait", false)
	node.AddOutputPort(OutputPortStatus, "Wait outcome status")
	node.AddOutputPort(OutputPortMsg, "Human-readable wait description")

	return node, nil
}

// Execute sleeps for the configured duration, honoring context
// cancellation, or reports the event being waited on.
func (n *WaitNode) Execute(ctx context.Context, inputs map[string]any, state *execution.Context) (map[string]any, error) {
	if n.duration > 0 {
		timer := time.NewTimer(n.duration)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		return map[string]any{
			OutputPortStatus: "completed",
			OutputPortMsg:    fmt.Sprintf("Waited for %s", n.duration),
		}, nil
	}

	return map[string]any{
		OutputPortStatus: "waiting",
		OutputPortMsg:    fmt.Sprintf("Waiting for event: %s", n.event),
	}, nil
}
