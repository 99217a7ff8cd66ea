package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/lwcp/internal/logging"
	"github.com/danmuck/lwcp/internal/protocol"
)

var (
	ErrMissingObject   = errors.New("schema: missing object")
	ErrMissingProperty = errors.New("schema: missing required property")
	ErrTypeMismatch    = errors.New("schema: property type mismatch")
	ErrInvalidRule     = errors.New("schema: invalid rule")
)

// Rule constrains messages carrying one operation. Types only applies to
// properties that are present; list a name in Required to demand it.
type Rule struct {
	Op         string
	MinObjects int
	Required   []string
	Types      map[string]protocol.Type
}

type ValidationError struct {
	Op       string
	Property string
	Reason   string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("schema: op=%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("schema: op=%s property=%s: %s", e.Op, e.Property, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Registry holds one rule per operation.
type Registry struct {
	rules map[string]Rule
}

// New checks rules and indexes them by operation.
func New(rules ...Rule) (*Registry, error) {
	reg := &Registry{rules: make(map[string]Rule, len(rules))}
	for i, rule := range rules {
		if !protocol.IsIdentifier(rule.Op) {
			return nil, fmt.Errorf("%w: rule[%d] op %q", ErrInvalidRule, i, rule.Op)
		}
		if _, dup := reg.rules[rule.Op]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for op %q", ErrInvalidRule, rule.Op)
		}
		if rule.MinObjects < 0 {
			return nil, fmt.Errorf("%w: rule %q min_objects %d", ErrInvalidRule, rule.Op, rule.MinObjects)
		}
		for _, name := range rule.Required {
			if !protocol.IsPropertyName(name) {
				return nil, fmt.Errorf("%w: rule %q required %q", ErrInvalidRule, rule.Op, name)
			}
		}
		for name := range rule.Types {
			if !protocol.IsPropertyName(name) {
				return nil, fmt.Errorf("%w: rule %q typed %q", ErrInvalidRule, rule.Op, name)
			}
		}
		reg.rules[rule.Op] = rule
	}
	return reg, nil
}

// Known reports whether a rule exists for op.
func (r *Registry) Known(op string) bool {
	if r == nil {
		return false
	}
	_, ok := r.rules[op]
	return ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Validate checks msg against the rule for its operation. Operations
// without a rule pass. The first violation is returned, checking object
// count, then required properties in rule order, then types by name.
func (r *Registry) Validate(msg *protocol.Message) error {
	if msg == nil {
		return protocol.ErrEmptyMessage
	}
	log := logging.For("schema")
	rule, ok := r.lookup(msg.Op())
	if !ok {
		log.Debug().Str("op", msg.Op()).Msg("no rule, accepted")
		return nil
	}

	if n := len(msg.Objects()); n < rule.MinObjects {
		log.Debug().Str("op", rule.Op).Int("objects", n).Int("min", rule.MinObjects).Msg("too few objects")
		return &ValidationError{
			Op:     rule.Op,
			Reason: fmt.Sprintf("want at least %d objects, got %d", rule.MinObjects, n),
			Err:    ErrMissingObject,
		}
	}

	for _, name := range rule.Required {
		if !msg.HasProperty(name) {
			log.Debug().Str("op", rule.Op).Str("property", name).Msg("missing property")
			return &ValidationError{Op: rule.Op, Property: name, Reason: "missing required property", Err: ErrMissingProperty}
		}
	}

	names := make([]string, 0, len(rule.Types))
	for name := range rule.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := msg.PropertyValue(name)
		if err != nil {
			continue
		}
		want := rule.Types[name]
		if got := v.Type(); got != want {
			log.Debug().Str("op", rule.Op).Str("property", name).Stringer("got", got).Stringer("want", want).Msg("type mismatch")
			return &ValidationError{
				Op:       rule.Op,
				Property: name,
				Reason:   fmt.Sprintf("type mismatch got=%s want=%s", got, want),
				Err:      ErrTypeMismatch,
			}
		}
	}
	return nil
}

func (r *Registry) lookup(op string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	rule, ok := r.rules[op]
	return rule, ok
}
