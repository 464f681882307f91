package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/youssefsiam38/agentctx/tool"
)

// cityCodes maps known city names to their station codes.
var cityCodes = map[string]string{
	"beijing":   "101010100",
	"shanghai":  "101020100",
	"guangzhou": "101280101",
	"shenzhen":  "101280601",
	"hangzhou":  "101210101",
	"chengdu":   "101270101",
	"wuhan":     "101200101",
	"xian":      "101110101",
	"nanjing":   "101190101",
	"chongqing": "101040100",
}

var weatherConditions = []string{
	"sunny", "cloudy", "overcast", "light rain", "heavy rain", "snow", "foggy", "windy",
}

// Weather reports simulated conditions for a known city. Readings are
// deterministic per city and day, so repeated queries within one
// conversation agree with each other.
type Weather struct {
	// now is injectable for tests.
	now func() time.Time
}

// NewWeather creates a weather tool
func NewWeather() *Weather {
	return &Weather{now: time.Now}
}

func (w *Weather) Name() string { return "get_weather" }

func (w *Weather) Description() string {
	return "Get today's weather for a city. Supports major cities by name."
}

func (w *Weather) InputSchema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"city": {
				Type:        "string",
				Description: "City name, e.g. \"Beijing\"",
				MinLength:   tool.IntPtr(1),
			},
			"unit": {
				Type:        "string",
				Description: "Temperature unit",
				Enum:        []string{"celsius", "fahrenheit"},
			},
		},
		Required: []string{"city"},
	}
}

// Report is one simulated weather reading.
type Report struct {
	City        string  `json:"city"`
	Code        string  `json:"code"`
	Date        string  `json:"date"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	Unit        string  `json:"unit"`
	Humidity    int     `json:"humidity"`
	WindKPH     int     `json:"wind_kph"`
}

func (w *Weather) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		City string `json:"city"`
		Unit string `json:"unit"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	name, code, ok := lookupCity(params.City)
	if !ok {
		return "", fmt.Errorf("unknown city: %s", params.City)
	}

	unit := params.Unit
	if unit == "" {
		unit = "celsius"
	}

	date := w.now().Format("2006-01-02")
	report := simulate(name, code, date)

	if unit == "fahrenheit" {
		report.Temperature = math.Round((report.Temperature*9/5+32)*10) / 10
		report.Unit = "fahrenheit"
	}

	out, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// lookupCity resolves a city name to its station code, tolerating partial
// matches like "beijing city".
func lookupCity(city string) (string, string, bool) {
	query := strings.ToLower(strings.TrimSpace(city))
	if query == "" {
		return "", "", false
	}

	if code, ok := cityCodes[query]; ok {
		return query, code, true
	}

	for name, code := range cityCodes {
		if strings.Contains(query, name) || strings.Contains(name, query) {
			return name, code, true
		}
	}
	return "", "", false
}

// simulate produces a reading seeded by station code and date, so the same
// city queried on the same day always reads the same.
func simulate(name, code, date string) Report {
	h := fnv.New64a()
	h.Write([]byte(code + date))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	return Report{
		City:        name,
		Code:        code,
		Date:        date,
		Condition:   weatherConditions[r.Intn(len(weatherConditions))],
		Temperature: float64(r.Intn(40) - 5),
		Unit:        "celsius",
		Humidity:    30 + r.Intn(61),
		WindKPH:     r.Intn(40),
	}
}
