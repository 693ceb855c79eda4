package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrentWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		w.Write([]byte(`{
			"main": {"temp": 18.5, "humidity": 72, "pressure": 1008},
			"wind": {"speed": 4.2, "deg": 210},
			"rain": {"1h": 0.6},
			"visibility": 8000,
			"name": "Testville"
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient("test-key", 40, -74)
	c.SetBaseURL(srv.URL)

	w := c.CurrentWeather(context.Background(), 0, 0)
	if w.Temperature != 18.5 {
		t.Errorf("temperature = %g", w.Temperature)
	}
	if w.Humidity != 72 {
		t.Errorf("humidity = %g", w.Humidity)
	}
	if w.Precipitation != 0.6 {
		t.Errorf("precipitation = %g", w.Precipitation)
	}
	if w.Visibility != 8 {
		t.Errorf("visibility = %g, want km", w.Visibility)
	}
	if w.Location != "Testville" {
		t.Errorf("location = %q", w.Location)
	}
}

func TestCurrentWeatherDegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWeatherClient("test-key", 40, -74)
	c.SetBaseURL(srv.URL)

	w := c.CurrentWeather(context.Background(), 0, 0)
	if w.Location != "synthetic" {
		t.Errorf("location = %q, want synthetic fallback", w.Location)
	}
	if w.Temperature != 22.0 {
		t.Errorf("temperature = %g, want synthetic 22", w.Temperature)
	}
}

func TestCurrentWeatherNoAPIKey(t *testing.T) {
	c := NewWeatherClient("", 40, -74)

	w := c.CurrentWeather(context.Background(), 0, 0)
	if w.Location != "synthetic" {
		t.Errorf("location = %q, want synthetic fallback", w.Location)
	}
}

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"list": [
				{"main": {"temp": 20, "humidity": 65, "pressure": 1010},
				 "wind": {"speed": 2.5, "deg": 180},
				 "rain": {"3h": 1.2},
				 "dt_txt": "2026-06-01 12:00:00",
				 "weather": [{"description": "light rain"}]},
				{"main": {"temp": 19, "humidity": 70, "pressure": 1009},
				 "wind": {"speed": 3.0, "deg": 190},
				 "dt_txt": "2026-06-01 15:00:00",
				 "weather": [{"description": "overcast clouds"}]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient("test-key", 40, -74)
	c.SetBaseURL(srv.URL)

	points := c.Forecast(context.Background(), 0, 0, 3)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Temperature != 20 {
		t.Errorf("temperature = %g", points[0].Temperature)
	}
	if points[0].Precipitation != 1.2 {
		t.Errorf("precipitation = %g", points[0].Precipitation)
	}
	if points[0].Description != "light rain" {
		t.Errorf("description = %q", points[0].Description)
	}
	if points[0].Timestamp.Hour() != 12 {
		t.Errorf("timestamp = %v", points[0].Timestamp)
	}
	if points[1].Precipitation != 0 {
		t.Errorf("missing rain should read 0, got %g", points[1].Precipitation)
	}
}

func TestForecastTruncatesToHorizon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"list": [`
		for i := 0; i < 16; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"main": {"temp": 20}, "dt_txt": "2026-06-01 12:00:00"}`
		}
		body += `]}`
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewWeatherClient("test-key", 40, -74)
	c.SetBaseURL(srv.URL)

	points := c.Forecast(context.Background(), 0, 0, 1)
	if len(points) != 8 {
		t.Errorf("got %d points, want 8 for a 1-day horizon", len(points))
	}
}

func TestForecastNoAPIKey(t *testing.T) {
	c := NewWeatherClient("", 40, -74)

	points := c.Forecast(context.Background(), 0, 0, 2)
	if len(points) != 16 {
		t.Fatalf("got %d synthetic points, want 16", len(points))
	}
	if points[0].Description != "clear sky" {
		t.Errorf("description = %q", points[0].Description)
	}
}
