package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"09:00", NewClock(9, 0), false},
		{"23:59", NewClock(23, 59), false},
		{"24:00", EndOfDay, false},
		{"13:30:00", NewClock(13, 30), false},
		{"9:00", 0, true},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockTimeScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  ClockTime
	}{
		{"string with seconds", "10:15:00", NewClock(10, 15)},
		{"bytes", []byte("08:00"), NewClock(8, 0)},
		{"time value", time.Date(0, 1, 1, 14, 45, 0, 0, time.UTC), NewClock(14, 45)},
		{"timestamp text", "0000-01-01T16:00:00Z", NewClock(16, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ClockTime
			if err := c.Scan(tt.value); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if c != tt.want {
				t.Errorf("Scan() = %v, want %v", c, tt.want)
			}
		})
	}
}

func TestClockTimeJSON(t *testing.T) {
	data, err := json.Marshal(NewClock(9, 5))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"09:05"` {
		t.Errorf("Marshal = %s", data)
	}

	var c ClockTime
	if err := json.Unmarshal([]byte(`"17:30"`), &c); err != nil {
		t.Fatal(err)
	}
	if c != NewClock(17, 30) {
		t.Errorf("Unmarshal = %v", c)
	}
}

func TestWeekOf(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	start, end := WeekOf(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	if start.Format(DateLayout) != "2024-01-08" || end.Format(DateLayout) != "2024-01-15" {
		t.Errorf("WeekOf = %s..%s", start.Format(DateLayout), end.Format(DateLayout))
	}

	// Sunday belongs to the week that started the previous Monday.
	start, _ = WeekOf(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if start.Format(DateLayout) != "2024-01-08" {
		t.Errorf("WeekOf(Sunday) start = %s", start.Format(DateLayout))
	}
}

func TestResetTokenValid(t *testing.T) {
	token := "abc"
	expiry := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	u := &User{PasswordResetToken: &token, PasswordResetExpiry: &expiry}

	if !u.ResetTokenValid("abc", expiry.Add(-time.Minute)) {
		t.Error("expected token to be valid before expiry")
	}
	if u.ResetTokenValid("abc", expiry) {
		t.Error("expected token to be expired at expiry")
	}
	if u.ResetTokenValid("abd", expiry.Add(-time.Minute)) {
		t.Error("expected mismatched token to be rejected")
	}
}
