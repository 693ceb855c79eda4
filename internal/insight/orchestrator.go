package insight

import (
	"context"
	"log"
	"time"

	"github.com/harvestlabs/farmpulse/internal/metrics"
	"github.com/harvestlabs/farmpulse/internal/models"
)

// DefaultProviderTimeout bounds each individual provider call. Calls that
// run past it are treated like any other provider failure.
const DefaultProviderTimeout = 30 * time.Second

// Orchestrator tries an ordered list of AI providers and normalizes whatever
// comes back. There is no retry loop: a failed or timed-out call simply
// advances the chain, since retries against a paid provider are deliberately
// out of scope.
type Orchestrator struct {
	providers []Provider
	timeout   time.Duration
}

func NewOrchestrator(providers ...Provider) *Orchestrator {
	return &Orchestrator{
		providers: providers,
		timeout:   DefaultProviderTimeout,
	}
}

// SetTimeout overrides the per-call provider timeout.
func (o *Orchestrator) SetTimeout(d time.Duration) { o.timeout = d }

// Generate produces the insight for one category. Providers are attempted in
// priority order and the first one that returns any response wins. Later
// parse failures go to the static fallback, never to the next provider.
// Generate always returns a fully populated Insight.
func (o *Orchestrator) Generate(ctx context.Context, category models.Target, r models.Reading, pred models.Prediction, weather *models.WeatherSnapshot, forecast []models.ForecastPoint) models.Insight {
	prompt := promptFor(category) + "\n\n" + buildContext(category, r, pred, weather, forecast)

	raw, responded := o.complete(ctx, prompt)
	if !responded {
		metrics.InsightsGenerated.WithLabelValues(string(category), "fallback").Inc()
		return fallbackInsight(category)
	}

	ins, ok := normalize(raw, category)
	if !ok {
		log.Printf("insight: %s response not parsable, using fallback", category)
		metrics.InsightsGenerated.WithLabelValues(string(category), "fallback").Inc()
		return fallbackInsight(category)
	}
	metrics.InsightsGenerated.WithLabelValues(string(category), "provider").Inc()
	return ins
}

// complete walks the provider chain and returns the first raw response.
// Cancelling the caller's context stops new attempts; an attempt already on
// the wire is detached and runs to completion or its own timeout, so a
// cancelled batch never abandons quota a provider has already charged.
func (o *Orchestrator) complete(ctx context.Context, prompt string) (string, bool) {
	for _, p := range o.providers {
		if ctx.Err() != nil {
			return "", false
		}
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		text, err := p.Complete(callCtx, systemPrompt, prompt)
		cancel()
		if err != nil {
			log.Printf("insight: provider %s failed: %v", p.Name(), err)
			metrics.ProviderAttempts.WithLabelValues(p.Name(), "error").Inc()
			continue
		}
		metrics.ProviderAttempts.WithLabelValues(p.Name(), "ok").Inc()
		return text, true
	}
	return "", false
}
