package nemlig

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateTimestamp(t *testing.T) {
	pattern := regexp.MustCompile(`^AAAAAAAA-[A-Za-z0-9_\-]{8}$`)

	for i := 0; i < 50; i++ {
		ts := generateTimestamp()
		if !pattern.MatchString(ts) {
			t.Fatalf("timestamp %q does not match expected shape", ts)
		}
	}
}

func TestGenerateTimestamp_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[generateTimestamp()] = true
	}

	// 64^8 possibilities; 100 draws colliding down to a handful would mean
	// the generator is broken
	if len(seen) < 90 {
		t.Errorf("got %d distinct timestamps out of 100", len(seen))
	}
}

func TestGenerateTimeslot(t *testing.T) {
	now := time.Date(2025, time.July, 23, 8, 45, 0, 0, time.Local)

	slot := generateTimeslot(now)

	if slot != "2025072308-120-600" {
		t.Errorf("slot = %q, want 2025072308-120-600", slot)
	}
}

func TestGenerateTimeslot_PadsSingleDigits(t *testing.T) {
	now := time.Date(2026, time.January, 5, 3, 0, 0, 0, time.Local)

	slot := generateTimeslot(now)

	if slot != "2026010503-120-600" {
		t.Errorf("slot = %q, want 2026010503-120-600", slot)
	}
}

func TestNewSearchQuery(t *testing.T) {
	query := NewSearchQuery("  mælk \n")

	if query.Text != "mælk" {
		t.Errorf("Text = %q, want trimmed %q", query.Text, "mælk")
	}
	if !strings.HasPrefix(query.Timestamp, "AAAAAAAA-") {
		t.Errorf("Timestamp = %q, want correlation prefix", query.Timestamp)
	}
	if !strings.HasSuffix(query.TimeslotUTC, "-120-600") {
		t.Errorf("TimeslotUTC = %q, want fixed suffix", query.TimeslotUTC)
	}
	if len(query.TimeslotUTC) != len("2025072308-120-600") {
		t.Errorf("TimeslotUTC length = %d, want %d", len(query.TimeslotUTC), len("2025072308-120-600"))
	}
}
