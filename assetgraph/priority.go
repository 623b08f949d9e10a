package assetgraph

import (
	"fmt"
	"strings"
)

// Priority describes when a dependency must be loaded relative to its importer.
type Priority int

const (
	PrioritySync Priority = iota
	PriorityLazy
	PriorityConditional
	PriorityParallel
)

var priorityNames = map[Priority]string{
	PrioritySync:        "sync",
	PriorityLazy:        "lazy",
	PriorityConditional: "conditional",
	PriorityParallel:    "parallel",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority converts a priority name. The empty string means sync.
func ParsePriority(s string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return PrioritySync, nil
	}
	for p, name := range priorityNames {
		if name == normalized {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown dependency priority: %s (valid options: sync, lazy, conditional, parallel)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
