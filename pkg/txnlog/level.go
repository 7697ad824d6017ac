package txnlog

import (
	"fmt"
	"strings"
)

// Level is a severity level attached to each entry and used as the
// write threshold on the logger and its sinks.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

var levelRanks = map[Level]int{
	LevelDebug:    10,
	LevelInfo:     20,
	LevelWarning:  30,
	LevelError:    40,
	LevelCritical: 50,
}

// ParseLevel normalizes and validates a severity name.
func ParseLevel(s string) (Level, error) {
	lvl := Level(strings.ToUpper(s))
	if _, ok := levelRanks[lvl]; !ok {
		return "", fmt.Errorf("%w: unknown level %q", ErrConfiguration, s)
	}
	return lvl, nil
}

// rank returns the numeric severity of a level. Entries may carry
// arbitrary level names; unknown ones rank as INFO.
func (l Level) rank() int {
	if r, ok := levelRanks[l]; ok {
		return r
	}
	return levelRanks[LevelInfo]
}

// normalize upper-cases a level without validating it. Entry levels are
// free-form; only thresholds are validated.
func (l Level) normalize() Level {
	return Level(strings.ToUpper(string(l)))
}
