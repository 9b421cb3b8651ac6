package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Level is the seniority enumeration the scorer accepts.
type Level string

const (
	LevelIntern Level = "intern"
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// ReadinessStatus values the scorer emits.
type ReadinessStatus string

const (
	StatusReady           ReadinessStatus = "ready"
	StatusAlmost          ReadinessStatus = "almost"
	StatusNeedsUpskilling ReadinessStatus = "needs_upskilling"
)

// ErrInvalidLevel rejects role levels outside the scorer's enumeration.
// Scoring fails closed on an unrecognized level rather than coercing to a
// default that would skew the score.
type ErrInvalidLevel struct {
	Value string
}

func (e *ErrInvalidLevel) Error() string {
	return fmt.Sprintf("unrecognized role level %q", e.Value)
}

// ParseLevel maps a free-form role level onto the scorer enumeration,
// case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelIntern:
		return LevelIntern, nil
	case LevelJunior:
		return LevelJunior, nil
	case LevelMid:
		return LevelMid, nil
	case LevelSenior:
		return LevelSenior, nil
	}
	return "", &ErrInvalidLevel{Value: s}
}

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseExperienceYears extracts the first decimal number from a free-text
// experience range ("4 years" -> 4, "0-2 years" -> 0). Best effort and lossy:
// text with no digits parses as zero.
func ParseExperienceYears(experienceRange string) float64 {
	match := numberPattern.FindString(experienceRange)
	if match == "" {
		return 0
	}
	years, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return years
}
