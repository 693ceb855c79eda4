// Package insight turns sensor readings and model predictions into
// natural-language advisories through a chain of AI providers with a
// deterministic static fallback.
package insight

import "context"

// systemPrompt frames every provider request.
const systemPrompt = "You are an expert agricultural consultant providing insights based on farm sensor data and ML predictions."

// Provider is one AI completion backend. Implementations must honor the
// context deadline; the orchestrator bounds every call with a timeout.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}
