package dub

import (
	"errors"
)

type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
}

type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

// Levels returns the number of levels in the expression.
func (expr MatchExpr) Levels() int {
	levels := 0
	for _, item := range expr.matchers {
		if item.level+1 > levels {
			levels = item.level + 1
		}
	}
	return levels
}

// Select returns the zero based indices of the steps out of n that expr
// matches. Steps are numbered from 1 in the expression. The steps are split
// into groups of size steps: the first level of the expression matches
// group numbers and the second level matches steps within a group. With a
// group size of 1 the first level matches step numbers directly, e.g. '2,4
// selects the second and fourth step, and '*/2 with groups of 4 selects the
// second step of every group.
func Select(expr MatchExpr, n, size int) ([]int, error) {
	if size < 1 {
		size = 1
	}
	if expr.Levels() > 2 {
		return nil, errors.New("step selections have at most 2 levels")
	}
	if len(expr.matchers) == 0 {
		return nil, errors.New("empty match expression")
	}
	var steps []int
	for i := 0; i < n; i++ {
		selected := true
		for _, item := range expr.matchers {
			num := i/size + 1
			if item.level == 1 {
				num = i%size + 1
			}
			if !item.matcher.match(num) {
				selected = false
				break
			}
		}
		if selected {
			steps = append(steps, i)
		}
	}
	return steps, nil
}
