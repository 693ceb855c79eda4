package models

import "time"

// SensorType identifies the category of a sensor reading.
type SensorType string

const (
	SensorAirTemperature  SensorType = "air_temperature"
	SensorAirHumidity     SensorType = "air_humidity"
	SensorSoilMoisture    SensorType = "soil_moisture"
	SensorSoilTemperature SensorType = "soil_temperature"
)

// SensorTypes lists the known sensor categories in a stable order.
var SensorTypes = []SensorType{
	SensorAirTemperature,
	SensorAirHumidity,
	SensorSoilMoisture,
	SensorSoilTemperature,
}

// Reading is one timestamped value from a single sensor. Immutable once
// validated.
type Reading struct {
	SensorID   string         `json:"sensor_id"`
	SensorType SensorType     `json:"sensor_type"`
	Value      float64        `json:"value"`
	Timestamp  time.Time      `json:"timestamp"`
	Location   string         `json:"location,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// WeatherSnapshot is the current-conditions context fetched once per batch
// and shared read-only across all sensors in that batch.
type WeatherSnapshot struct {
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Precipitation float64   `json:"precipitation"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Pressure      float64   `json:"pressure"`
	Visibility    float64   `json:"visibility"`
	UVIndex       float64   `json:"uv_index"`
	Timestamp     time.Time `json:"timestamp"`
	Location      string    `json:"location"`
}

// ForecastPoint is one short-horizon forecast entry, typically on a 3-hour
// grid.
type ForecastPoint struct {
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Precipitation float64   `json:"precipitation"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection float64   `json:"wind_direction"`
	Pressure      float64   `json:"pressure"`
	Timestamp     time.Time `json:"timestamp"`
	Description   string    `json:"description"`
}

// Target identifies one of the three prediction objectives.
type Target string

const (
	TargetIrrigation Target = "irrigation"
	TargetCropHealth Target = "crop_health"
	TargetYield      Target = "yield"
)

// Targets lists the prediction objectives in a stable order.
var Targets = []Target{TargetIrrigation, TargetCropHealth, TargetYield}

// Prediction is the outcome of running one target's model over a feature
// vector. ModelName "default" means no model was loaded; "error" means
// inference failed. Both carry a confidence of 0.5.
type Prediction struct {
	Target         Target    `json:"prediction_type"`
	PredictedValue float64   `json:"predicted_value"`
	Confidence     float64   `json:"confidence"`
	ModelName      string    `json:"model_name"`
	FeaturesUsed   []string  `json:"features_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// Severity of a threshold alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a single threshold violation. Generated, never mutated.
type Alert struct {
	Category   string     `json:"type"`
	SensorType SensorType `json:"sensor_type"`
	Value      float64    `json:"value"`
	Threshold  float64    `json:"threshold"`
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Insight is a normalized advisory produced for one category. Content is
// always non-empty and Recommendations/Warnings are always list-typed,
// whatever shape the provider returned.
type Insight struct {
	InsightType     string    `json:"insight_type"`
	Content         string    `json:"content"`
	Recommendations []string  `json:"recommendations"`
	Warnings        []string  `json:"warnings"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
}

// SensorResult is the full pipeline output for one reading.
type SensorResult struct {
	Reading     Reading               `json:"sensor_data"`
	Predictions map[Target]Prediction `json:"predictions"`
	Insights    map[Target]Insight    `json:"insights"`
	Alerts      []Alert               `json:"alerts"`
}

// FarmStatus is the terminal fold of a batch.
type FarmStatus struct {
	OverallHealthScore float64  `json:"overall_health_score"`
	AlertCount         int      `json:"alert_count"`
	CriticalAlerts     int      `json:"critical_alerts"`
	WarningAlerts      int      `json:"warning_alerts"`
	Recommendations    []string `json:"recommendations"`
	SensorCount        int      `json:"sensor_count"`
}

// BatchResult is the outcome of processing a farm-scoped batch of readings
// against one shared weather context.
type BatchResult struct {
	FarmID         string           `json:"farm_id"`
	Sensors        []SensorResult   `json:"processed_sensors"`
	Status         FarmStatus       `json:"farm_status"`
	Weather        *WeatherSnapshot `json:"weather_context,omitempty"`
	TotalSensors   int              `json:"total_sensors"`
	ProcessedCount int              `json:"processed_count"`
	Timestamp      time.Time        `json:"timestamp"`
}
