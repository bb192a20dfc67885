// Package weather fetches a read-only forecast from Open-Meteo for the
// dashboard. Results are cached; a fetch failure keeps serving the last
// good forecast rather than clearing it.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	cacheTTL     = 30 * time.Minute
	forecastDays = 5
)

// Config holds the household's location and unit preference.
type Config struct {
	Latitude  string
	Longitude string
	Units     string // "fahrenheit" or "celsius"
}

// Day is one entry of the daily outlook.
type Day struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	Desc string  `json:"desc"`
	Icon string  `json:"icon"`
}

// Forecast is the current conditions plus a short daily outlook.
type Forecast struct {
	Temp       float64 `json:"temp"`
	Desc       string  `json:"desc"`
	Icon       string  `json:"icon"`
	Unit       string  `json:"unit"` // "F" or "C"
	Days       []Day   `json:"days"`
	Available  bool    `json:"available"`
	Configured bool    `json:"configured"`
}

// Service fetches and caches forecasts.
type Service struct {
	cfg     Config
	client  *http.Client
	baseURL string

	mu        sync.RWMutex
	cached    Forecast
	fetchedAt time.Time
}

// NewService creates a weather service. Lat/lon left empty marks the
// service unconfigured; Current then returns an empty forecast without
// ever hitting the network.
func NewService(cfg Config) *Service {
	if cfg.Units == "" {
		cfg.Units = "fahrenheit"
	}
	return &Service{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.open-meteo.com/v1/forecast",
		cached: Forecast{
			Unit:       unitLabel(cfg.Units),
			Configured: cfg.Latitude != "" && cfg.Longitude != "",
		},
	}
}

// Current returns the forecast, refreshing from the API when the cache
// has gone stale. Errors degrade to the previous forecast.
func (s *Service) Current(ctx context.Context) Forecast {
	if !s.cached.Configured {
		return s.cached
	}

	s.mu.RLock()
	if time.Since(s.fetchedAt) < cacheTTL && s.cached.Available {
		f := s.cached
		s.mu.RUnlock()
		return f
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if time.Since(s.fetchedAt) < cacheTTL && s.cached.Available {
		return s.cached
	}

	f, err := s.fetch(ctx)
	if err != nil {
		return s.cached
	}

	s.cached = f
	s.fetchedAt = time.Now()
	return s.cached
}

type apiResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

func (s *Service) fetch(ctx context.Context) (Forecast, error) {
	url := fmt.Sprintf(
		"%s?latitude=%s&longitude=%s&current=temperature_2m,weather_code&daily=temperature_2m_max,temperature_2m_min,weather_code&timezone=auto&forecast_days=%d&temperature_unit=%s",
		s.baseURL, s.cfg.Latitude, s.cfg.Longitude, forecastDays, s.cfg.Units,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("weather API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Forecast{}, fmt.Errorf("decode weather response: %w", err)
	}

	desc, icon := describeWMOCode(body.Current.WeatherCode)
	f := Forecast{
		Temp:       body.Current.Temperature,
		Desc:       desc,
		Icon:       icon,
		Unit:       unitLabel(s.cfg.Units),
		Available:  true,
		Configured: true,
	}

	for i := 0; i < len(body.Daily.TempMax) && i < len(body.Daily.TempMin); i++ {
		d := Day{High: body.Daily.TempMax[i], Low: body.Daily.TempMin[i]}
		if i < len(body.Daily.WeatherCode) {
			d.Desc, d.Icon = describeWMOCode(body.Daily.WeatherCode[i])
		}
		f.Days = append(f.Days, d)
	}

	return f, nil
}

func unitLabel(units string) string {
	if units == "celsius" {
		return "C"
	}
	return "F"
}

// describeWMOCode maps a WMO weather code to a description and emoji icon.
func describeWMOCode(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear sky", "☀️"
	case code == 1:
		return "Mainly clear", "🌤️"
	case code == 2:
		return "Partly cloudy", "⛅"
	case code == 3:
		return "Overcast", "☁️"
	case code == 45 || code == 48:
		return "Foggy", "🌫️"
	case code >= 51 && code <= 57:
		return "Drizzle", "🌦️"
	case code >= 61 && code <= 67:
		return "Rain", "🌧️"
	case code >= 71 && code <= 77:
		return "Snow", "🌨️"
	case code >= 80 && code <= 82:
		return "Showers", "🌧️"
	case code == 85 || code == 86:
		return "Snow showers", "❄️"
	case code >= 95:
		return "Thunderstorm", "⛈️"
	default:
		return "Unknown", "🌡️"
	}
}
