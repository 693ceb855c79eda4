// Package features derives model-ready feature vectors from sensor readings
// and ambient weather context.
package features

import (
	"github.com/harvestlabs/farmpulse/internal/models"
)

// Names lists the feature columns in the exact order the trained models
// expect them. Vector indexes match this slice.
var Names = []string{
	"temperature",
	"humidity",
	"soil_moisture",
	"soil_temperature",
	"precipitation",
	"wind_speed",
	"temp_humidity_interaction",
	"moisture_temp_ratio",
	"hour",
	"day_of_year",
	"month",
}

// Domain-neutral defaults used when a field is not reported. Degrading to
// these rather than failing keeps the pipeline running on partial data.
const (
	defaultTemperature     = 20.0
	defaultHumidity        = 50.0
	defaultSoilMoisture    = 50.0
	defaultSoilTemperature = 18.0
	defaultPrecipitation   = 0.0
	defaultWindSpeed       = 3.0
)

// Extract builds the fixed 11-feature vector for one reading. The reading
// contributes the value for its own sensor category; the remaining sensor
// slots take their defaults. Weather, when present, supplies precipitation
// and wind speed. Time features come from the reading's timestamp, never
// the wall clock, so extraction is pure.
func Extract(r models.Reading, weather *models.WeatherSnapshot) []float64 {
	temperature := defaultTemperature
	humidity := defaultHumidity
	soilMoisture := defaultSoilMoisture
	soilTemperature := defaultSoilTemperature

	switch r.SensorType {
	case models.SensorAirTemperature:
		temperature = r.Value
	case models.SensorAirHumidity:
		humidity = r.Value
	case models.SensorSoilMoisture:
		soilMoisture = r.Value
	case models.SensorSoilTemperature:
		soilTemperature = r.Value
	}

	precipitation := defaultPrecipitation
	windSpeed := defaultWindSpeed
	if weather != nil {
		precipitation = weather.Precipitation
		windSpeed = weather.WindSpeed
	}

	tempHumidityInteraction := temperature * humidity / 100
	// The +1 is a documented epsilon guarding the zero-crossing of Celsius
	// temperature. It is not a numerically robust guard and is kept as-is
	// for bit-compatible behavior with the trained models.
	moistureTempRatio := soilMoisture / (temperature + 1)

	ts := r.Timestamp.UTC()

	return []float64{
		temperature,
		humidity,
		soilMoisture,
		soilTemperature,
		precipitation,
		windSpeed,
		tempHumidityInteraction,
		moistureTempRatio,
		float64(ts.Hour()),
		float64(ts.YearDay()),
		float64(int(ts.Month())),
	}
}
