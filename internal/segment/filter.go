package segment

import (
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Dropped describes a rule that did not take part in the filter.
type Dropped struct {
	Index  int
	Rule   entity.SegmentRule
	Reason string
}

// Filter is a disjunction of conjunctions: groups are OR-ed, the predicates
// inside a group are AND-ed. The zero Filter matches nothing.
type Filter struct {
	groups [][]predicate
}

// Compile turns an ordered rule list into a Filter. A rule's connector joins
// it to the next kept rule; AND binds tighter than OR and a missing connector
// means AND. Unsupported rules are dropped before joining.
func Compile(rules []entity.SegmentRule) (Filter, []Dropped) {
	type kept struct {
		pred      predicate
		connector Connector
	}

	var (
		compiled []kept
		dropped  []Dropped
	)
	for i, rule := range rules {
		pred, err := compileRule(rule)
		if err != nil {
			dropped = append(dropped, Dropped{Index: i, Rule: rule, Reason: err.Error()})
			continue
		}
		compiled = append(compiled, kept{pred: pred, connector: parseConnector(rule.Connector)})
	}

	if len(compiled) == 0 {
		return Filter{}, dropped
	}

	groups := [][]predicate{{compiled[0].pred}}
	for i := 1; i < len(compiled); i++ {
		if compiled[i-1].connector == ConnectorOr {
			groups = append(groups, []predicate{compiled[i].pred})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], compiled[i].pred)
	}

	return Filter{groups: groups}, dropped
}

// Empty reports whether the filter can match no customer at all.
func (f Filter) Empty() bool {
	return len(f.groups) == 0
}

func (f Filter) Match(c *entity.Customer, now time.Time) bool {
	for _, group := range f.groups {
		if matchAll(group, c, now) {
			return true
		}
	}
	return false
}

func matchAll(group []predicate, c *entity.Customer, now time.Time) bool {
	for _, p := range group {
		if !p.match(c, now) {
			return false
		}
	}
	return true
}

// SQL renders the filter as a WHERE expression over the customers table,
// numbering placeholders from firstArg.
func (f Filter) SQL(now time.Time, firstArg int) (string, []any) {
	if f.Empty() {
		return "FALSE", nil
	}

	var (
		args   []any
		groups = make([]string, 0, len(f.groups))
		arg    = firstArg
	)
	for _, group := range f.groups {
		parts := make([]string, 0, len(group))
		for _, p := range group {
			expr, value := p.sql(now, arg)
			parts = append(parts, expr)
			args = append(args, value)
			arg++
		}
		groups = append(groups, "("+strings.Join(parts, " AND ")+")")
	}

	return strings.Join(groups, " OR "), args
}
