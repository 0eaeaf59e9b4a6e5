// Package segment compiles campaign segment rules into a customer filter.
//
// Every supported field/operator pair maps to one predicate type below and
// the predicate interface is sealed to this package. Each predicate renders
// both an in-memory match and a SQL fragment.
package segment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type Field string

const (
	FieldTotalSpend    Field = "totalSpend"
	FieldVisitCount    Field = "visitCount"
	FieldLastOrderDate Field = "lastOrderDate"
	FieldSegment       Field = "segment"
)

type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
)

func (o Operator) ordered() bool {
	switch o {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

func (o Operator) valid() bool {
	return o.ordered() || o == OpEqual || o == OpNotEqual
}

func (o Operator) sql() string {
	if o == OpNotEqual {
		return "<>"
	}
	return string(o)
}

// MaxRecencyDays bounds lastOrderDate values to a century.
const MaxRecencyDays = 36500

type Connector string

const (
	ConnectorAnd Connector = "AND"
	ConnectorOr  Connector = "OR"
)

func parseConnector(s string) Connector {
	if strings.EqualFold(strings.TrimSpace(s), string(ConnectorOr)) {
		return ConnectorOr
	}
	return ConnectorAnd
}

type predicate interface {
	match(c *entity.Customer, now time.Time) bool
	// sql returns a boolean SQL expression using placeholder $arg and its value.
	sql(now time.Time, arg int) (string, any)
}

type spendPredicate struct {
	op    Operator
	value float64
}

func (p spendPredicate) match(c *entity.Customer, _ time.Time) bool {
	return compare(p.op, c.TotalSpend, p.value)
}

func (p spendPredicate) sql(_ time.Time, arg int) (string, any) {
	return fmt.Sprintf("total_spend %s $%d", p.op.sql(), arg), p.value
}

type visitPredicate struct {
	op    Operator
	value int
}

func (p visitPredicate) match(c *entity.Customer, _ time.Time) bool {
	return compare(p.op, c.VisitCount, p.value)
}

func (p visitPredicate) sql(_ time.Time, arg int) (string, any) {
	return fmt.Sprintf("visit_count %s $%d", p.op.sql(), arg), p.value
}

type segmentPredicate struct {
	negate bool
	value  string
}

func (p segmentPredicate) match(c *entity.Customer, _ time.Time) bool {
	return (c.Segment == p.value) != p.negate
}

func (p segmentPredicate) sql(_ time.Time, arg int) (string, any) {
	if p.negate {
		return fmt.Sprintf("segment <> $%d", arg), p.value
	}
	return fmt.Sprintf("segment = $%d", arg), p.value
}

// recencyPredicate reads the rule value as "days since last order", so the
// comparison on the timestamp runs the other way: more days ago is an earlier
// date. A customer without orders counts as infinitely long ago.
type recencyPredicate struct {
	op   Operator
	days int
}

func (p recencyPredicate) cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(p.days) * 24 * time.Hour)
}

func (p recencyPredicate) match(c *entity.Customer, now time.Time) bool {
	if c.LastOrderDate == nil {
		return p.op == OpGreater || p.op == OpGreaterEqual
	}
	last := *c.LastOrderDate
	cutoff := p.cutoff(now)

	switch p.op {
	case OpGreater:
		return last.Before(cutoff)
	case OpGreaterEqual:
		return !last.After(cutoff)
	case OpLess:
		return last.After(cutoff)
	case OpLessEqual:
		return !last.Before(cutoff)
	}
	return false
}

func (p recencyPredicate) sql(now time.Time, arg int) (string, any) {
	cutoff := p.cutoff(now)
	switch p.op {
	case OpGreater:
		return fmt.Sprintf("(last_order_date IS NULL OR last_order_date < $%d)", arg), cutoff
	case OpGreaterEqual:
		return fmt.Sprintf("(last_order_date IS NULL OR last_order_date <= $%d)", arg), cutoff
	case OpLess:
		return fmt.Sprintf("last_order_date > $%d", arg), cutoff
	default:
		return fmt.Sprintf("last_order_date >= $%d", arg), cutoff
	}
}

type number interface {
	~int | ~float64
}

func compare[T number](op Operator, left, right T) bool {
	switch op {
	case OpGreater:
		return left > right
	case OpGreaterEqual:
		return left >= right
	case OpLess:
		return left < right
	case OpLessEqual:
		return left <= right
	case OpEqual:
		return left == right
	case OpNotEqual:
		return left != right
	}
	return false
}

// compileRule returns an error for every combination the evaluator drops.
func compileRule(rule entity.SegmentRule) (predicate, error) {
	op := Operator(strings.TrimSpace(rule.Operator))
	if !op.valid() {
		return nil, fmt.Errorf("unsupported operator %q", rule.Operator)
	}
	raw := strings.TrimSpace(rule.Value)

	switch Field(strings.TrimSpace(rule.Field)) {
	case FieldTotalSpend:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("totalSpend value %q is not a number", rule.Value)
		}
		return spendPredicate{op: op, value: v}, nil

	case FieldVisitCount:
		// visit_count is an INTEGER column.
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("visitCount value %q is not an integer", rule.Value)
		}
		return visitPredicate{op: op, value: int(v)}, nil

	case FieldSegment:
		switch op {
		case OpEqual:
			return segmentPredicate{value: rule.Value}, nil
		case OpNotEqual:
			return segmentPredicate{negate: true, value: rule.Value}, nil
		}
		return nil, fmt.Errorf("segment supports only = and !=, got %q", rule.Operator)

	case FieldLastOrderDate:
		if !op.ordered() {
			return nil, fmt.Errorf("lastOrderDate does not support %q", rule.Operator)
		}
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 || days > MaxRecencyDays {
			return nil, fmt.Errorf("lastOrderDate value %q is not a day count", rule.Value)
		}
		return recencyPredicate{op: op, days: days}, nil
	}

	return nil, fmt.Errorf("unsupported field %q", rule.Field)
}
