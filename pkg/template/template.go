// Package template provides templating for dynamic node configuration.
package template

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/nodeflow/nodeflow/pkg/execution"
)

// RenderWithState renders a template against the data visible to a node
// mid-run: variables, accumulated node results and execution identity.
func RenderWithState(input string, state *execution.Context) (any, error) {
	data := map[string]any{
		"variables": state.Variables(),
		"vars":      state.Variables(), // Support both .vars and .variables
		"results":   state.Results(),
		"env":       getEnvVars(),
		"execution": map[string]any{
			"id":          state.ExecutionID,
			"workflow_id": state.WorkflowID,
		},
	}

	return Render(input, data)
}

func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("transform").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"rand": func(max int) int {
				if max <= 0 {
					return 0
				}
				num := make([]byte, 1)
				_, err := rand.Read(num)
				if err != nil {
					return 0
				}

				return int(num[0]) % max
			},
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	// Try to parse as JSON if it looks like JSON
	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}
	}

	return result, nil
}

// RenderMap renders every string value of a map, leaving other values
// untouched. Nested maps are rendered recursively.
func RenderMap(config map[string]any, state *execution.Context) (map[string]any, error) {
	rendered := make(map[string]any, len(config))

	for key, value := range config {
		switch v := value.(type) {
		case string:
			out, err := RenderWithState(v, state)
			if err != nil {
				return nil, err
			}

			rendered[key] = out
		case map[string]any:
			out, err := RenderMap(v, state)
			if err != nil {
				return nil, err
			}

			rendered[key] = out
		default:
			rendered[key] = value
		}
	}

	return rendered, nil
}

func getEnvVars() map[string]string {
	envVars := make(map[string]string)

	for _, env := range os.Environ() {
		if key, value, found := strings.Cut(env, "="); found {
			envVars[key] = value
		}
	}

	return envVars
}
