package protocol

import (
	"fmt"
	"strings"
)

// Kind is what a directive asks the engine to do.
type Kind int

const (
	KindUnknown Kind = iota
	KindAddTask
	KindAddGoal
	KindAddHabit
	KindLogEnergy
	KindComplete
	KindJournal
)

// wireKinds maps the upper-cased KIND field of a directive to its Kind.
var wireKinds = map[string]Kind{
	"TASK":     KindAddTask,
	"GOAL":     KindAddGoal,
	"HABIT":    KindAddHabit,
	"ENERGY":   KindLogEnergy,
	"COMPLETE": KindComplete,
	"JOURNAL":  KindJournal,
}

func (k Kind) String() string {
	for wire, kind := range wireKinds {
		if kind == k {
			return wire
		}
	}
	return "UNKNOWN"
}

// ParseKind resolves a directive KIND field, ignoring case.
func ParseKind(s string) Kind {
	return wireKinds[strings.ToUpper(s)]
}

// Action is one parsed directive. Category carries the energy level for
// KindLogEnergy and is a placeholder for KindComplete and KindJournal.
type Action struct {
	Kind     Kind
	Category string
	Content  string
}

// Token renders the action back into directive form.
func (a Action) Token() string {
	return fmt.Sprintf("%s%s:%s:%s]", directiveOpen, a.Kind, a.Category, a.Content)
}
