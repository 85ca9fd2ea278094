package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"pipedeck/internal/catalog"
)

const (
	swatchGlyph = "●"
	ansiReset   = "\x1b[0m"
	timeLayout  = "2006-01-02 15:04"
)

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// swatch renders the category colour as a 24-bit ANSI dot, or a plain
// marker when output is not a terminal.
func swatch(c catalog.Color, colorize bool) string {
	if !colorize {
		return "-"
	}
	r, g, b := c.RGB()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s%s", r, g, b, swatchGlyph, ansiReset)
}

func formatTime(t time.Time) string {
	if t.IsZero() || t.UnixMilli() == 0 {
		return "never"
	}
	return t.Local().Format(timeLayout)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func favoriteMark(favorite bool) string {
	if favorite {
		return "★"
	}
	return ""
}
