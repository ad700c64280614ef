package catalog

import (
	"asbindgen/internal/config"
	"asbindgen/internal/diag"
	"asbindgen/internal/types"
)

// Usage is the tally of one type name.
type Usage struct {
	PointerUses int
	ValueUses   int
}

// Scoreboard tallies pointer and value occurrences per type name. Names are
// kept in first-seen order.
type Scoreboard struct {
	usages map[string]*Usage
	order  []string
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{usages: make(map[string]*Usage)}
}

// Record counts one occurrence. References count as neither form: a T&
// binds as T &in whatever T is classified as.
func (scoreboard *Scoreboard) Record(resolved types.Resolved) {
	if resolved.IsBuiltin() || resolved.Reference {
		return
	}
	usage, found := scoreboard.usages[resolved.Name]
	if !found {
		usage = &Usage{}
		scoreboard.usages[resolved.Name] = usage
		scoreboard.order = append(scoreboard.order, resolved.Name)
	}
	if resolved.Pointer {
		usage.PointerUses++
	} else {
		usage.ValueUses++
	}
}

// Usage returns the tally of name.
func (scoreboard *Scoreboard) Usage(name string) Usage {
	if usage, found := scoreboard.usages[name]; found {
		return *usage
	}
	return Usage{}
}

// Names returns every recorded name in first-seen order.
func (scoreboard *Scoreboard) Names() []string {
	return append([]string(nil), scoreboard.order...)
}

// Kind is the registration kind of an object type.
type Kind int

const (
	Value Kind = iota
	Reference
)

func (kind Kind) String() string {
	if kind == Reference {
		return "reference"
	}
	return "value"
}

// Classifier derives the kind of each object type from the scoreboard and
// the configured overrides. It stores nothing of its own.
type Classifier struct {
	scoreboard *Scoreboard
	options    *config.Options
}

func NewClassifier(scoreboard *Scoreboard, options *config.Options) *Classifier {
	return &Classifier{scoreboard: scoreboard, options: options}
}

// Classify returns Reference iff pointer uses strictly outnumber value uses,
// unless an override pins the kind.
func (classifier *Classifier) Classify(name string) Kind {
	if override, found := classifier.options.Override(name); found {
		if reference, explicit := override.ExplicitReference(); explicit {
			if reference {
				return Reference
			}
			return Value
		}
	}
	usage := classifier.scoreboard.Usage(name)
	if usage.PointerUses > usage.ValueUses {
		return Reference
	}
	return Value
}

// IsReference is Classify(name) == Reference.
func (classifier *Classifier) IsReference(name string) bool {
	return classifier.Classify(name) == Reference
}

// WarnUnused warns about object types without any recorded use and no
// override; they are classified as value types by default.
func (classifier *Classifier) WarnUnused(objects []*ObjectType, log *diag.Log) {
	for _, object := range objects {
		if override, found := classifier.options.Override(object.Name); found {
			if _, explicit := override.ExplicitReference(); explicit {
				continue
			}
		}
		usage := classifier.scoreboard.Usage(object.Name)
		if usage.PointerUses == 0 && usage.ValueUses == 0 {
			log.Warnf("%s has no recorded uses, registering it as a value type", object.Name)
		}
	}
}
