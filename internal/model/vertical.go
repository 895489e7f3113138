package model

import "strings"

// Vertical is a top-level insurance category. It decides which sheet tab a
// customer lives in and partitions every store query alongside user_id.
type Vertical string

const (
	VerticalMotor    Vertical = "motor"
	VerticalHealth   Vertical = "health"
	VerticalNonMotor Vertical = "non-motor"
	VerticalLife     Vertical = "life"
)

// TabType identifies the kind of sheet tab: the general tab mixes motor,
// health and non-motor in one vertical column; the life tab holds only life.
type TabType string

const (
	TabGeneral TabType = "general"
	TabLife    TabType = "life"
)

// VerticalsForTab returns the verticals that live on a tab of the given type.
func VerticalsForTab(t TabType) []Vertical {
	if t == TabLife {
		return []Vertical{VerticalLife}
	}
	return []Vertical{VerticalMotor, VerticalHealth, VerticalNonMotor}
}

// ParseVertical collapses a sheet cell to a canonical vertical token.
// "Non Motor", "non-motor" and "NONMOTOR" all parse to non-motor.
// Unrecognized values default to non-motor: the general tab mixes three
// verticals in one column and an ambiguous value must not be dropped.
func ParseVertical(s string) Vertical {
	switch squash(s) {
	case "motor", "vehicle", "auto":
		return VerticalMotor
	case "health", "mediclaim":
		return VerticalHealth
	case "life", "lic", "terml", "termlife":
		return VerticalLife
	case "nonmotor", "general", "nm":
		return VerticalNonMotor
	default:
		return VerticalNonMotor
	}
}

// squash lowercases and strips spaces, hyphens, underscores and dots so that
// human spelling variants compare equal.
func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, s)
}
