package ingest

import (
	"fmt"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// Physical limits per sensor category. Values outside these ranges are
// rejected outright rather than flagged.
var valueRanges = map[models.SensorType][2]float64{
	models.SensorAirTemperature:  {-40, 80},
	models.SensorAirHumidity:     {0, 100},
	models.SensorSoilMoisture:    {0, 100},
	models.SensorSoilTemperature: {-20, 60},
}

var rangeUnits = map[models.SensorType]string{
	models.SensorAirTemperature:  "°C",
	models.SensorAirHumidity:     "%",
	models.SensorSoilMoisture:    "%",
	models.SensorSoilTemperature: "°C",
}

// ValidateReading checks a reading against the sensor domain contract and
// returns every failing check, not just the first. A reading that fails
// validation is rejected individually; it never aborts a batch.
func ValidateReading(r models.Reading) (bool, []string) {
	var errs []string

	if r.SensorID == "" {
		errs = append(errs, "missing required field: sensor_id")
	}
	if r.SensorType == "" {
		errs = append(errs, "missing required field: sensor_type")
	} else if _, known := valueRanges[r.SensorType]; !known {
		errs = append(errs, fmt.Sprintf("invalid sensor type: %s", r.SensorType))
	} else {
		bounds := valueRanges[r.SensorType]
		if r.Value < bounds[0] || r.Value > bounds[1] {
			errs = append(errs, fmt.Sprintf("%s out of range: %g%s (expected %g to %g)",
				r.SensorType, r.Value, rangeUnits[r.SensorType], bounds[0], bounds[1]))
		}
	}
	if r.Timestamp.IsZero() {
		errs = append(errs, "invalid timestamp")
	}

	return len(errs) == 0, errs
}
