package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/harvestlabs/farmpulse/internal/alerts"
	"github.com/harvestlabs/farmpulse/internal/models"
)

type fakeWeather struct{}

func (fakeWeather) CurrentWeather(ctx context.Context, lat, lon float64) models.WeatherSnapshot {
	return models.WeatherSnapshot{Temperature: 22, Humidity: 60, WindSpeed: 3}
}

func (fakeWeather) Forecast(ctx context.Context, lat, lon float64, days int) []models.ForecastPoint {
	return []models.ForecastPoint{{Temperature: 21, Humidity: 55, Description: "clear sky"}}
}

type fakePredictor struct {
	values map[models.Target]float64
}

func (p *fakePredictor) Predict(target models.Target, features []float64) models.Prediction {
	value := p.values[target]
	return models.Prediction{
		Target:         target,
		PredictedValue: value,
		Confidence:     0.8,
		ModelName:      string(target) + "_model",
		FeaturesUsed:   []string{"temperature"},
	}
}

type fakeInsighter struct{}

func (fakeInsighter) Generate(ctx context.Context, category models.Target, r models.Reading, pred models.Prediction, weather *models.WeatherSnapshot, forecast []models.ForecastPoint) models.Insight {
	return models.Insight{
		InsightType:     string(category),
		Content:         "generated",
		Recommendations: []string{},
		Warnings:        []string{},
		Confidence:      0.9,
		Timestamp:       time.Now().UTC(),
	}
}

type fakeSink struct {
	mu      sync.Mutex
	sensors []models.SensorResult
	batches []models.BatchResult
}

func (s *fakeSink) SaveSensorResult(ctx context.Context, res models.SensorResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors = append(s.sensors, res)
	return nil
}

func (s *fakeSink) SaveBatchResult(ctx context.Context, res models.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, res)
	return nil
}

func testPipeline(predictor *fakePredictor, sink *fakeSink) *Pipeline {
	if predictor == nil {
		predictor = &fakePredictor{values: map[models.Target]float64{
			models.TargetIrrigation: 0,
			models.TargetCropHealth: 75,
			models.TargetYield:      2100,
		}}
	}
	// Convert a nil *fakeSink to a nil Sink interface so the pipeline's
	// nil check sees "no sink" rather than a typed-nil interface value.
	var s Sink
	if sink != nil {
		s = sink
	}
	return New(fakeWeather{}, predictor, alerts.NewEngine(), fakeInsighter{}, s)
}

func reading(id string, st models.SensorType, value float64) models.Reading {
	return models.Reading{
		SensorID:   id,
		SensorType: st,
		Value:      value,
		Timestamp:  time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcessReading(t *testing.T) {
	sink := &fakeSink{}
	p := testPipeline(nil, sink)

	res, errs := p.ProcessReading(context.Background(), reading("s1", models.SensorAirTemperature, 24))
	if errs != nil {
		t.Fatalf("validation errors: %v", errs)
	}
	if len(res.Predictions) != 3 {
		t.Errorf("got %d predictions, want 3", len(res.Predictions))
	}
	if len(res.Insights) != 3 {
		t.Errorf("got %d insights, want 3", len(res.Insights))
	}
	if len(res.Alerts) != 0 {
		t.Errorf("alerts = %v, want none for in-range value", res.Alerts)
	}
	if len(sink.sensors) != 1 {
		t.Errorf("sink received %d sensor results, want 1", len(sink.sensors))
	}
}

func TestProcessReadingInvalid(t *testing.T) {
	p := testPipeline(nil, nil)

	res, errs := p.ProcessReading(context.Background(), models.Reading{
		SensorID:   "s1",
		SensorType: models.SensorAirTemperature,
		Value:      200,
		Timestamp:  time.Now(),
	})
	if res != nil {
		t.Error("expected nil result for invalid reading")
	}
	if len(errs) == 0 {
		t.Error("expected validation errors")
	}
}

func TestProcessBatch(t *testing.T) {
	sink := &fakeSink{}
	p := testPipeline(nil, sink)

	readings := []models.Reading{
		reading("s1", models.SensorAirTemperature, 24),
		reading("s2", models.SensorAirHumidity, 55),
		reading("s3", models.SensorSoilMoisture, 15), // below the 20 minimum
	}
	batch := p.ProcessBatch(context.Background(), "farm-1", readings)

	if batch.FarmID != "farm-1" {
		t.Errorf("farm id = %q", batch.FarmID)
	}
	if batch.TotalSensors != 3 || batch.ProcessedCount != 3 {
		t.Errorf("counts = %d/%d, want 3/3", batch.TotalSensors, batch.ProcessedCount)
	}
	// Results come back in input order despite concurrent processing.
	for i, want := range []string{"s1", "s2", "s3"} {
		if batch.Sensors[i].Reading.SensorID != want {
			t.Errorf("sensor %d = %q, want %q", i, batch.Sensors[i].Reading.SensorID, want)
		}
	}
	if got := len(batch.Sensors[2].Alerts); got != 1 {
		t.Fatalf("soil moisture sensor has %d alerts, want 1", got)
	}
	if batch.Sensors[2].Alerts[0].Severity != models.SeverityWarning {
		t.Errorf("severity = %q, want warning for low value", batch.Sensors[2].Alerts[0].Severity)
	}
	if batch.Status.WarningAlerts != 1 {
		t.Errorf("warning alerts = %d, want 1", batch.Status.WarningAlerts)
	}
	if len(sink.batches) != 1 {
		t.Errorf("sink received %d batch results, want 1", len(sink.batches))
	}
}

func TestProcessBatchCriticalRecommendation(t *testing.T) {
	p := testPipeline(&fakePredictor{values: map[models.Target]float64{
		models.TargetIrrigation: 0,
		models.TargetCropHealth: 75,
		models.TargetYield:      2100,
	}}, nil)

	readings := []models.Reading{
		reading("s1", models.SensorAirTemperature, 24),
		reading("s2", models.SensorAirHumidity, 55),
		reading("s3", models.SensorSoilMoisture, 85), // above the 80 maximum
	}
	batch := p.ProcessBatch(context.Background(), "farm-1", readings)

	if batch.Status.CriticalAlerts != 1 {
		t.Fatalf("critical alerts = %d, want 1", batch.Status.CriticalAlerts)
	}
	found := false
	for _, rec := range batch.Status.Recommendations {
		if rec == "Address critical alerts immediately" {
			found = true
		}
	}
	if !found {
		t.Errorf("recommendations = %v, missing critical advisory", batch.Status.Recommendations)
	}
}

func TestProcessBatchSkipsInvalid(t *testing.T) {
	p := testPipeline(nil, nil)

	readings := []models.Reading{
		reading("s1", models.SensorAirTemperature, 24),
		reading("s2", models.SensorAirTemperature, 200), // out of range
		reading("s3", models.SensorAirHumidity, 55),
	}
	batch := p.ProcessBatch(context.Background(), "farm-1", readings)

	if batch.TotalSensors != 3 {
		t.Errorf("total = %d, want 3", batch.TotalSensors)
	}
	if batch.ProcessedCount != 2 {
		t.Errorf("processed = %d, want 2", batch.ProcessedCount)
	}
	for _, res := range batch.Sensors {
		if res.Reading.SensorID == "s2" {
			t.Error("invalid reading produced a result")
		}
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	p := testPipeline(nil, nil)

	batch := p.ProcessBatch(context.Background(), "farm-1", nil)
	if batch.ProcessedCount != 0 {
		t.Errorf("processed = %d, want 0", batch.ProcessedCount)
	}
	if batch.Status.OverallHealthScore != 50.0 {
		t.Errorf("health = %g, want neutral 50", batch.Status.OverallHealthScore)
	}
}

func TestProcessBatchCancelled(t *testing.T) {
	p := testPipeline(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := p.ProcessBatch(ctx, "farm-1", []models.Reading{
		reading("s1", models.SensorAirTemperature, 24),
	})
	if batch.ProcessedCount != 0 {
		t.Errorf("processed = %d, want 0 after cancellation", batch.ProcessedCount)
	}
}
