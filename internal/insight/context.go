package insight

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// forecastWindow is how many forecast points summarize the next 24 hours at
// the provider's 3-hour resolution.
const forecastWindow = 8

// buildContext assembles the category-specific textual embedding of sensor
// values, prediction, current weather and a short forecast summary that is
// handed to the AI providers alongside the prompt template.
func buildContext(category models.Target, r models.Reading, pred models.Prediction, weather *models.WeatherSnapshot, forecast []models.ForecastPoint) string {
	var b strings.Builder

	b.WriteString("Farm Sensor Data:\n")
	b.WriteString(sensorLines(r))

	b.WriteString("\nML Prediction:\n")
	switch category {
	case models.TargetCropHealth:
		fmt.Fprintf(&b, "- Crop Health Score: %g/100\n", pred.PredictedValue)
	case models.TargetYield:
		fmt.Fprintf(&b, "- Predicted Yield: %g kg/hectare\n", pred.PredictedValue)
	default:
		fmt.Fprintf(&b, "- Irrigation Needed: %g\n", pred.PredictedValue)
	}
	fmt.Fprintf(&b, "- Confidence: %g\n", pred.Confidence)

	if weather != nil {
		b.WriteString("\nCurrent Weather Data:\n")
		fmt.Fprintf(&b, "- Temperature: %g°C\n", weather.Temperature)
		fmt.Fprintf(&b, "- Humidity: %g%%\n", weather.Humidity)
		switch category {
		case models.TargetCropHealth:
			fmt.Fprintf(&b, "- UV Index: %g\n", weather.UVIndex)
		case models.TargetYield:
			fmt.Fprintf(&b, "- Precipitation: %gmm\n", weather.Precipitation)
			fmt.Fprintf(&b, "- Wind Speed: %gm/s\n", weather.WindSpeed)
		default:
			fmt.Fprintf(&b, "- Precipitation (last hour): %gmm\n", weather.Precipitation)
			fmt.Fprintf(&b, "- Wind Speed: %gm/s\n", weather.WindSpeed)
			fmt.Fprintf(&b, "- Pressure: %ghPa\n", weather.Pressure)
		}
	}

	if summary := summarizeForecast(category, forecast); summary != "" {
		b.WriteString(summary)
	}

	return b.String()
}

func sensorLines(r models.Reading) string {
	value := func(st models.SensorType, unit string) string {
		if r.SensorType == st {
			return fmt.Sprintf("%g%s", r.Value, unit)
		}
		return "N/A"
	}
	return fmt.Sprintf("- Temperature: %s\n- Humidity: %s\n- Soil Moisture: %s\n- Soil Temperature: %s\n",
		value(models.SensorAirTemperature, "°C"),
		value(models.SensorAirHumidity, "%"),
		value(models.SensorSoilMoisture, "%"),
		value(models.SensorSoilTemperature, "°C"))
}

// summarizeForecast folds the first 8 forecast points (about 24h) into mean
// temperature plus either total precipitation or mean humidity, with the
// first point's condition text as an example.
func summarizeForecast(category models.Target, forecast []models.ForecastPoint) string {
	if len(forecast) == 0 {
		return ""
	}
	window := forecast
	if len(window) > forecastWindow {
		window = window[:forecastWindow]
	}

	temps := make([]float64, len(window))
	precip := make([]float64, len(window))
	humidity := make([]float64, len(window))
	for i, p := range window {
		temps[i] = p.Temperature
		precip[i] = p.Precipitation
		humidity[i] = p.Humidity
	}

	var b strings.Builder
	b.WriteString("\nShort-term Forecast (next 24h):\n")
	fmt.Fprintf(&b, "- Average Temperature: %.1f°C\n", stat.Mean(temps, nil))
	if category == models.TargetCropHealth {
		fmt.Fprintf(&b, "- Average Humidity: %.1f%%\n", stat.Mean(humidity, nil))
	} else {
		fmt.Fprintf(&b, "- Total Precipitation: %.1fmm\n", floats.Sum(precip))
	}
	fmt.Fprintf(&b, "- Example Conditions: %s\n", window[0].Description)
	return b.String()
}
