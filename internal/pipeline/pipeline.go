// Package pipeline wires validation, feature extraction, prediction, alert
// evaluation and insight generation into one pass over a reading or a batch.
package pipeline

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/harvestlabs/farmpulse/internal/alerts"
	"github.com/harvestlabs/farmpulse/internal/features"
	"github.com/harvestlabs/farmpulse/internal/ingest"
	"github.com/harvestlabs/farmpulse/internal/metrics"
	"github.com/harvestlabs/farmpulse/internal/models"
)

// forecastDays is the horizon requested from the weather provider for
// insight context. Only the first 8 points feed the forecast summary.
const forecastDays = 3

// WeatherProvider supplies the shared weather context for a batch. It never
// fails: implementations degrade to synthetic data internally.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) models.WeatherSnapshot
	Forecast(ctx context.Context, lat, lon float64, days int) []models.ForecastPoint
}

// Predictor runs one target's model. Implementations never return errors;
// degraded predictions carry the "default" or "error" model name.
type Predictor interface {
	Predict(target models.Target, features []float64) models.Prediction
}

// Insighter generates the advisory for one category.
type Insighter interface {
	Generate(ctx context.Context, category models.Target, r models.Reading, pred models.Prediction, weather *models.WeatherSnapshot, forecast []models.ForecastPoint) models.Insight
}

// Sink receives finished pipeline output for durable persistence. The
// pipeline's responsibility ends at the handoff; sink errors are logged,
// never surfaced.
type Sink interface {
	SaveSensorResult(ctx context.Context, res models.SensorResult) error
	SaveBatchResult(ctx context.Context, res models.BatchResult) error
}

// Pipeline processes readings end to end. All held collaborators are
// read-only after construction, so one Pipeline serves concurrent requests.
type Pipeline struct {
	weather   WeatherProvider
	predictor Predictor
	alerts    *alerts.Engine
	insights  Insighter
	sink      Sink

	// maxSensors bounds concurrent per-sensor work within a batch.
	maxSensors int
}

func New(weather WeatherProvider, predictor Predictor, alertEngine *alerts.Engine, insights Insighter, sink Sink) *Pipeline {
	return &Pipeline{
		weather:    weather,
		predictor:  predictor,
		alerts:     alertEngine,
		insights:   insights,
		sink:       sink,
		maxSensors: 8,
	}
}

// ProcessReading runs the full pipeline over a single reading. A non-nil
// validation error list means the reading was rejected; every other failure
// mode produces a degraded but complete result.
func (p *Pipeline) ProcessReading(ctx context.Context, r models.Reading) (*models.SensorResult, []string) {
	if ok, errs := ingest.ValidateReading(r); !ok {
		metrics.ReadingsProcessed.WithLabelValues(string(r.SensorType), "invalid").Inc()
		return nil, errs
	}

	weather := p.weather.CurrentWeather(ctx, 0, 0)
	forecast := p.weather.Forecast(ctx, 0, 0, forecastDays)

	res := p.processValidated(ctx, r, &weather, forecast)

	if p.sink != nil {
		if err := p.sink.SaveSensorResult(ctx, *res); err != nil {
			log.Printf("pipeline: save sensor result: %v", err)
		}
	}
	return res, nil
}

// ProcessBatch processes a farm-scoped batch against one shared weather
// context. Invalid readings are skipped, never aborting the batch; per-sensor
// work runs concurrently. Cancelling ctx stops launching new sensor work but
// lets in-flight provider calls finish or time out naturally.
func (p *Pipeline) ProcessBatch(ctx context.Context, farmID string, readings []models.Reading) models.BatchResult {
	weather := p.weather.CurrentWeather(ctx, 0, 0)
	forecast := p.weather.Forecast(ctx, 0, 0, forecastDays)

	type slot struct {
		index int
		res   *models.SensorResult
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, p.maxSensors)
	out := make(chan slot, len(readings))

	for i, r := range readings {
		if ctx.Err() != nil {
			log.Printf("pipeline: batch %s cancelled after launching %d of %d sensors", farmID, i, len(readings))
			break
		}
		ok, errs := ingest.ValidateReading(r)
		if !ok {
			log.Printf("pipeline: invalid reading %s: %v", r.SensorID, errs)
			metrics.ReadingsProcessed.WithLabelValues(string(r.SensorType), "invalid").Inc()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(index int, r models.Reading) {
			defer wg.Done()
			defer func() { <-sem }()
			out <- slot{index: index, res: p.processValidated(ctx, r, &weather, forecast)}
		}(i, r)
	}

	wg.Wait()
	close(out)

	slots := make([]slot, 0, len(readings))
	for s := range out {
		slots = append(slots, s)
	}
	// Restore input order; goroutines complete in arbitrary order.
	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })
	results := make([]models.SensorResult, 0, len(slots))
	for _, s := range slots {
		results = append(results, *s.res)
	}

	batch := models.BatchResult{
		FarmID:         farmID,
		Sensors:        results,
		Status:         AggregateStatus(results),
		Weather:        &weather,
		TotalSensors:   len(readings),
		ProcessedCount: len(results),
		Timestamp:      time.Now().UTC(),
	}

	if p.sink != nil {
		if err := p.sink.SaveBatchResult(ctx, batch); err != nil {
			log.Printf("pipeline: save batch result: %v", err)
		}
	}
	return batch
}

// processValidated handles one already-validated reading: features, the
// three predictions in parallel, alerts, then the three insights in parallel
// (each insight consumes its own target's prediction).
func (p *Pipeline) processValidated(ctx context.Context, r models.Reading, weather *models.WeatherSnapshot, forecast []models.ForecastPoint) *models.SensorResult {
	vector := features.Extract(r, weather)

	var mu sync.Mutex
	predictions := make(map[models.Target]models.Prediction, len(models.Targets))
	var wg sync.WaitGroup
	for _, target := range models.Targets {
		wg.Add(1)
		go func(target models.Target) {
			defer wg.Done()
			pred := p.predictor.Predict(target, vector)
			mu.Lock()
			predictions[target] = pred
			mu.Unlock()
		}(target)
	}
	wg.Wait()

	alertList := p.alerts.Check(map[models.SensorType]float64{r.SensorType: r.Value})

	insights := make(map[models.Target]models.Insight, len(models.Targets))
	for _, target := range models.Targets {
		wg.Add(1)
		go func(target models.Target) {
			defer wg.Done()
			ins := p.insights.Generate(ctx, target, r, predictions[target], weather, forecast)
			mu.Lock()
			insights[target] = ins
			mu.Unlock()
		}(target)
	}
	wg.Wait()

	metrics.ReadingsProcessed.WithLabelValues(string(r.SensorType), "ok").Inc()
	return &models.SensorResult{
		Reading:     r,
		Predictions: predictions,
		Insights:    insights,
		Alerts:      alertList,
	}
}
