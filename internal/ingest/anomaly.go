package ingest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/harvestlabs/farmpulse/internal/models"
)

// DefaultAnomalyWindow is the number of preceding readings used to form the
// expected range for a value.
const DefaultAnomalyWindow = 10

// Anomaly marks a reading that falls outside the rolling statistical band of
// its sensor category.
type Anomaly struct {
	SensorID      string            `json:"sensor_id"`
	SensorType    models.SensorType `json:"sensor_type"`
	Value         float64           `json:"value"`
	ExpectedRange [2]float64        `json:"expected_range"`
	Timestamp     string            `json:"timestamp"`
	AnomalyType   string            `json:"anomaly_type"`
}

// DetectAnomalies scans readings per sensor category with a rolling window
// and flags values beyond two population standard deviations of the window.
// Readings are ordered by timestamp per category before scanning; categories
// with fewer readings than the window are skipped.
func DetectAnomalies(readings []models.Reading, window int) []Anomaly {
	if window <= 0 {
		window = DefaultAnomalyWindow
	}
	if len(readings) < window {
		return nil
	}

	groups := make(map[models.SensorType][]models.Reading)
	for _, r := range readings {
		groups[r.SensorType] = append(groups[r.SensorType], r)
	}

	var anomalies []Anomaly
	for _, st := range models.SensorTypes {
		group := groups[st]
		if len(group) < window {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		values := make([]float64, len(group))
		for i, r := range group {
			values[i] = r.Value
		}

		for i := window; i < len(values); i++ {
			win := values[i-window : i]
			mean := stat.Mean(win, nil)
			std := popStdDev(win, mean)
			if std > 0 && math.Abs(values[i]-mean) > 2*std {
				anomalies = append(anomalies, Anomaly{
					SensorID:      group[i].SensorID,
					SensorType:    st,
					Value:         values[i],
					ExpectedRange: [2]float64{mean - 2*std, mean + 2*std},
					Timestamp:     group[i].Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
					AnomalyType:   "statistical_outlier",
				})
			}
		}
	}
	return anomalies
}

// popStdDev is the population (not sample) deviation; the window is treated
// as the whole distribution, matching the historical behavior of the band.
func popStdDev(values []float64, mean float64) float64 {
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}
