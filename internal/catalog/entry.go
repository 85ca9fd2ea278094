package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups entries by the kind of source their pipeline uses.
type Category string

const (
	CategoryTest    Category = "test"
	CategoryRTSP    Category = "rtsp"
	CategoryUDP     Category = "udp"
	CategoryFile    Category = "file"
	CategoryEffects Category = "effects"
	CategoryCustom  Category = "custom"
)

// Categories lists every category in derivation order.
var Categories = []Category{CategoryTest, CategoryRTSP, CategoryUDP, CategoryFile, CategoryEffects, CategoryCustom}

// Color is an ARGB colour value.
type Color uint32

const (
	ColorOrange Color = 0xFFFF9800
	ColorBlue   Color = 0xFF03A9F4
	ColorGreen  Color = 0xFF4CAF50
	ColorPurple Color = 0xFF9C27B0
	ColorGrey   Color = 0xFF90A4AE
)

// Hex renders the colour as #AARRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// RGB returns the red, green, and blue components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryTest, []string{"videotestsrc"}},
	{CategoryRTSP, []string{"rtspsrc"}},
	{CategoryUDP, []string{"udpsrc"}},
	{CategoryFile, []string{"filesrc"}},
	{CategoryEffects, []string{"edge", "aging", "mixer"}},
}

// Categorize derives the category of a pipeline text. Matching is a
// case-sensitive substring test and the first matching rule wins.
func Categorize(text string) Category {
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.category
			}
		}
	}
	return CategoryCustom
}

// ColorFor maps a category to its display colour. File and effects entries
// share the grey used for unknown categories.
func ColorFor(category Category) Color {
	switch category {
	case CategoryTest:
		return ColorOrange
	case CategoryRTSP:
		return ColorBlue
	case CategoryUDP:
		return ColorGreen
	case CategoryCustom:
		return ColorPurple
	default:
		return ColorGrey
	}
}

// ParseCategory accepts a category name, case-insensitively.
func ParseCategory(value string) (Category, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, category := range Categories {
		if string(category) == value {
			return category, true
		}
	}
	return "", false
}

// Entry is one stored pipeline definition.
type Entry struct {
	ID         string
	Name       string
	Text       string
	CreatedAt  time.Time
	LastUsedAt time.Time
	Favorite   bool
}

// Category derives the entry's category from its pipeline text.
func (e Entry) Category() Category {
	return Categorize(e.Text)
}

// Color derives the entry's display colour from its category.
func (e Entry) Color() Color {
	return ColorFor(e.Category())
}

// NewEntry builds an entry for user-supplied values. Name and text are
// trimmed and must not be empty.
func NewEntry(name, text string, now time.Time) (Entry, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" {
		return Entry{}, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if text == "" {
		return Entry{}, &ValidationError{Field: "pipeline", Message: "must not be empty"}
	}
	return newEntry(name, text, now), nil
}

func newEntry(name, text string, now time.Time) Entry {
	stamp := millis(now)
	return Entry{
		ID:         uuid.NewString(),
		Name:       name,
		Text:       text,
		CreatedAt:  stamp,
		LastUsedAt: stamp,
	}
}

// millis drops sub-millisecond precision and the monotonic reading so a
// time survives a trip through the snapshot unchanged.
func millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}
