package color

import "os"

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a new Color instance
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor() bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	return true
}

// Missing colors a string to mark entries whose object no longer exists (red)
func (c *Color) Missing(text string) string {
	if !c.enabled {
		return text
	}
	return Red + text + Reset
}

// Unannotated colors a string to mark objects with no annotations yet (yellow)
func (c *Color) Unannotated(text string) string {
	if !c.enabled {
		return text
	}
	return Yellow + text + Reset
}

// Header colors a section header (cyan)
func (c *Color) Header(text string) string {
	if !c.enabled {
		return text
	}
	return Cyan + text + Reset
}
