package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_weather_api_calls_total",
			Help: "Total OpenWeatherMap API calls",
		},
		[]string{"endpoint", "status"},
	)

	WeatherAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmpulse_weather_api_latency_seconds",
			Help:    "OpenWeatherMap API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ReadingsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_readings_processed_total",
			Help: "Sensor readings accepted into the pipeline",
		},
		[]string{"sensor_type", "status"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_predictions_total",
			Help: "Model predictions by target and model name",
		},
		[]string{"target", "model"},
	)

	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_alerts_emitted_total",
			Help: "Threshold alerts emitted",
		},
		[]string{"sensor_type", "severity"},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_ai_provider_attempts_total",
			Help: "AI provider completion attempts",
		},
		[]string{"provider", "status"},
	)

	InsightsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmpulse_insights_generated_total",
			Help: "Insights generated by category and source (provider or fallback)",
		},
		[]string{"category", "source"},
	)
)
