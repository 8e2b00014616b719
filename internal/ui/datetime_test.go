package ui

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "date and time", in: "2025-09-10 08:30", want: time.Date(2025, 9, 10, 8, 30, 0, 0, tokyo)},
		{name: "bare date is midnight", in: " 2025-09-10 ", want: time.Date(2025, 9, 10, 0, 0, 0, 0, tokyo)},
		{name: "garbage", in: "next tuesday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.in, tokyo)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOptionalDateTime(t *testing.T) {
	got, err := ParseOptionalDateTime("  ", time.UTC)
	if err != nil || got != nil {
		t.Fatalf("blank should be nil without error, got %v, %v", got, err)
	}
	if err := ValidateOptionalDateTime("2025-13-01"); err == nil {
		t.Fatal("month 13 should be rejected")
	}
}

func TestFormatDateTimeRoundTrip(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}
	at := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

	s := FormatDateTime(&at, paris)
	if s != "2025-09-06 12:00" {
		t.Fatalf("unexpected format %q", s)
	}
	back, err := ParseDateTime(s, paris)
	if err != nil || !back.Equal(at) {
		t.Fatalf("round trip failed: %v, %v", back, err)
	}
	if FormatDateTime(nil, paris) != "" {
		t.Fatal("nil time should format empty")
	}
}

func TestNewLayoutContentHeight(t *testing.T) {
	l := NewLayout(100, 30)
	if got := l.ContentHeight(); got != 28 {
		t.Fatalf("content height = %d, want 28", got)
	}
	if got := l.ContentWidth(); got != 100 {
		t.Fatalf("content width = %d, want 100", got)
	}
}
