// Package analyzer lints scenario documents before rendering: keyframes in
// transition-reserved ranges, values outside a property's declared range, and
// easing specs that would silently fall back to linear.
package analyzer

import (
	"fmt"

	"github.com/framefuse/keyline/internal/scenario"
)

// Issue is one finding in a scenario.
type Issue struct {
	ItemID   string
	Property string
	Frame    int
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s/%s frame %d: %s", i.ItemID, i.Property, i.Frame, i.Message)
}

// Checker is the interface for scenario lint strategies.
type Checker interface {
	Check(sc *scenario.Scenario) ([]Issue, error)
}

// NewChecker creates a checker based on the specified variant.
func NewChecker(variant string) (Checker, error) {
	switch variant {
	case "all", "":
		return compositeChecker{
			&BlockedChecker{},
			&RangeChecker{},
			&EasingChecker{},
		}, nil
	case "blocked":
		return &BlockedChecker{}, nil
	case "range":
		return &RangeChecker{}, nil
	case "easing":
		return &EasingChecker{}, nil
	default:
		return nil, fmt.Errorf("unknown checker variant: %s", variant)
	}
}

type compositeChecker []Checker

func (c compositeChecker) Check(sc *scenario.Scenario) ([]Issue, error) {
	var all []Issue
	for _, ch := range c {
		issues, err := ch.Check(sc)
		if err != nil {
			return nil, err
		}
		all = append(all, issues...)
	}
	return all, nil
}
