package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestFormatEventsForAIEmpty(t *testing.T) {
	if got := FormatEventsForAI(nil); got != "Ingen events fundet i den angivne periode." {
		t.Errorf("empty formatting = %q", got)
	}
}

func TestFormatEventsForAI(t *testing.T) {
	start := time.Date(2025, 6, 14, 17, 0, 0, 0, time.Local)
	events := []Event{
		{
			Title:       "Bryllup i Valby",
			Location:    "Valby Kulturhus",
			Start:       start,
			End:         start.Add(5 * time.Hour),
			Description: "200 kuverter",
			Attendees:   200,
		},
		{
			Title: "Firmafest",
			Start: start.AddDate(0, 0, 1),
			End:   start.AddDate(0, 0, 1).Add(3 * time.Hour),
		},
	}
	got := FormatEventsForAI(events)

	if !strings.Contains(got, "📅 **Bryllup i Valby**") {
		t.Error("missing event title line")
	}
	if !strings.Contains(got, "🕐 14.6.2025 17.00 - 22.00") {
		t.Errorf("missing or wrong time line in %q", got)
	}
	if !strings.Contains(got, "📝 200 kuverter") {
		t.Error("missing description line")
	}
	if !strings.Contains(got, "👥 200 deltagere") {
		t.Error("missing attendees line")
	}
	if !strings.Contains(got, "📍 Ingen lokation angivet") {
		t.Error("missing location fallback for second event")
	}
	if strings.Count(got, "📅") != 2 {
		t.Error("expected two event blocks")
	}
}
