package timeutil

import (
	"testing"
	"time"
)

func TestFormatMillisUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 1, 15, 12, 30, 0, 123456789, loc)

	if got := FormatMillis(ts); got != "2024-01-15T10:30:00.123Z" {
		t.Fatalf("unexpected format: %s", got)
	}
}

func TestParseMillisRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC)

	got, err := ParseMillis(FormatMillis(ts))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, got)
	}
}

func TestParseMillisAcceptsOffsets(t *testing.T) {
	got, err := ParseMillis("2024-01-15T12:30:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Hour() != 10 || got.Location() != time.UTC {
		t.Fatalf("expected 10:30 UTC, got %v", got)
	}
}

func TestParseMillisRejectsGarbage(t *testing.T) {
	if _, err := ParseMillis("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}
