package builtin

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"
)

func fixedWeather() *Weather {
	w := NewWeather()
	w.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func execWeather(t *testing.T, w *Weather, input string) Report {
	t.Helper()
	out, err := w.Execute(context.Background(), json.RawMessage(input))
	if err != nil {
		t.Fatalf("Execute(%s): %v", input, err)
	}
	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	return report
}

func TestWeatherDeterministic(t *testing.T) {
	w := fixedWeather()

	first := execWeather(t, w, `{"city":"Beijing"}`)
	second := execWeather(t, w, `{"city":"Beijing"}`)

	if first != second {
		t.Errorf("same city and day gave different readings:\n first=%+v\nsecond=%+v", first, second)
	}
	if first.City != "beijing" || first.Code != "101010100" {
		t.Errorf("city/code = %s/%s, want beijing/101010100", first.City, first.Code)
	}
	if first.Date != "2026-03-01" {
		t.Errorf("date = %s, want 2026-03-01", first.Date)
	}
}

func TestWeatherFuzzyMatch(t *testing.T) {
	w := fixedWeather()

	exact := execWeather(t, w, `{"city":"shanghai"}`)
	fuzzy := execWeather(t, w, `{"city":"Shanghai City"}`)

	if exact.Code != fuzzy.Code {
		t.Errorf("fuzzy match resolved to %s, exact to %s", fuzzy.Code, exact.Code)
	}
}

func TestWeatherUnknownCity(t *testing.T) {
	w := fixedWeather()
	if _, err := w.Execute(context.Background(), json.RawMessage(`{"city":"Atlantis"}`)); err == nil {
		t.Error("unknown city succeeded, want error")
	}
}

func TestWeatherFahrenheit(t *testing.T) {
	w := fixedWeather()

	celsius := execWeather(t, w, `{"city":"Chengdu"}`)
	fahrenheit := execWeather(t, w, `{"city":"Chengdu","unit":"fahrenheit"}`)

	want := math.Round((celsius.Temperature*9/5+32)*10) / 10
	if fahrenheit.Temperature != want {
		t.Errorf("fahrenheit = %v, want %v (from %v celsius)", fahrenheit.Temperature, want, celsius.Temperature)
	}
	if fahrenheit.Unit != "fahrenheit" {
		t.Errorf("unit = %s, want fahrenheit", fahrenheit.Unit)
	}
	if fahrenheit.Condition != celsius.Condition {
		t.Error("unit conversion changed the simulated condition")
	}
}
