package catalog

import (
	"errors"
	"testing"
	"time"
)

func TestCategorizePrecedence(t *testing.T) {
	cases := []struct {
		text string
		want Category
	}{
		{"videotestsrc ! autovideosink", CategoryTest},
		{"rtspsrc location=rtsp://cam ! decodebin ! edgetv ! autovideosink", CategoryRTSP},
		{"udpsrc port=5000 ! rtspsrc", CategoryRTSP},
		{"videotestsrc ! udpsrc", CategoryTest},
		{"udpsrc port=5000 ! tsdemux ! autovideosink", CategoryUDP},
		{"filesrc location=a.mp4 ! decodebin ! autovideosink", CategoryFile},
		{"filesrc location=a.mp4 ! agingtv ! autovideosink", CategoryFile},
		{"v4l2src ! edgetv ! autovideosink", CategoryEffects},
		{"v4l2src ! agingtv ! autovideosink", CategoryEffects},
		{"compositor name=mixer ! autovideosink", CategoryEffects},
		{"v4l2src ! autovideosink", CategoryCustom},
		{"VideoTestSrc ! autovideosink", CategoryCustom},
		{"", CategoryCustom},
	}
	for _, tc := range cases {
		if got := Categorize(tc.text); got != tc.want {
			t.Fatalf("Categorize(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestColorMapping(t *testing.T) {
	cases := map[Category]Color{
		CategoryTest:    0xFFFF9800,
		CategoryRTSP:    0xFF03A9F4,
		CategoryUDP:     0xFF4CAF50,
		CategoryCustom:  0xFF9C27B0,
		CategoryFile:    0xFF90A4AE,
		CategoryEffects: 0xFF90A4AE,
		Category("x"):   0xFF90A4AE,
	}
	for category, want := range cases {
		if got := ColorFor(category); got != want {
			t.Fatalf("ColorFor(%q) = %s, want %s", category, got.Hex(), want.Hex())
		}
	}
	if ColorOrange.Hex() != "#FFFF9800" {
		t.Fatalf("unexpected hex %s", ColorOrange.Hex())
	}
	if r, g, b := ColorBlue.RGB(); r != 0x03 || g != 0xA9 || b != 0xF4 {
		t.Fatalf("unexpected rgb %d %d %d", r, g, b)
	}
}

func TestEntryDerivedFieldsFollowText(t *testing.T) {
	e := Entry{Text: "videotestsrc ! autovideosink"}
	if e.Category() != CategoryTest || e.Color() != ColorOrange {
		t.Fatalf("unexpected derived fields %q %s", e.Category(), e.Color().Hex())
	}
	e.Text = "rtspsrc location=rtsp://cam ! edgetv ! autovideosink"
	if e.Category() != CategoryRTSP || e.Color() != ColorBlue {
		t.Fatalf("derived fields did not follow text: %q %s", e.Category(), e.Color().Hex())
	}
}

func TestNewEntryValidates(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	e, err := NewEntry("  Test  ", "  videotestsrc ! autovideosink ", now)
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if e.ID == "" || e.Name != "Test" || e.Text != "videotestsrc ! autovideosink" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !e.CreatedAt.Equal(now) || !e.LastUsedAt.Equal(now) || e.Favorite {
		t.Fatalf("unexpected defaults %+v", e)
	}

	var verr *ValidationError
	if _, err := NewEntry(" ", "videotestsrc", now); !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if _, err := NewEntry("n", "\t", now); !errors.As(err, &verr) || verr.Field != "pipeline" {
		t.Fatalf("expected pipeline validation error, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" RTSP "); !ok || c != CategoryRTSP {
		t.Fatalf("unexpected parse %q %v", c, ok)
	}
	if _, ok := ParseCategory("audio"); ok {
		t.Fatal("expected unknown category")
	}
}
