package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// nodes explored between context checks
const checkInterval = 255

// subtrees handed to each worker when the root is split
const subtreesPerWorker = 4

// Search is the built-in backend: depth-first branch and bound over bounded
// integer variables with linear bound propagation
type Search struct {
	logger *zap.Logger
}

// NewSearch creates the built-in backend. A nil logger disables logging.
func NewSearch(logger *zap.Logger) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{logger: logger}
}

// leConstraint is a constraint normalised to sum(terms) <= rhs
type leConstraint struct {
	terms []Term
	rhs   int
}

// model is the search-ready form of a Problem
type model struct {
	problem *Problem
	cons    []leConstraint
	varCons [][]int
	varCoef [][]int
	obj     []int
}

func newModel(p *Problem) *model {
	m := &model{
		problem: p,
		varCons: make([][]int, p.NumVars()),
		varCoef: make([][]int, p.NumVars()),
		obj:     make([]int, p.NumVars()),
	}
	for _, t := range p.objective {
		m.obj[t.Var] += t.Coef
	}
	for _, c := range p.constraints {
		terms := merge(c.Expr)
		switch c.Sense {
		case LessOrEqual:
			m.add(terms, c.RHS)
		case GreaterOrEqual:
			m.add(negate(terms), -c.RHS)
		case Equal:
			m.add(terms, c.RHS)
			m.add(negate(terms), -c.RHS)
		}
	}
	return m
}

func (m *model) add(terms []Term, rhs int) {
	idx := len(m.cons)
	m.cons = append(m.cons, leConstraint{terms: terms, rhs: rhs})
	for _, t := range terms {
		m.varCons[t.Var] = append(m.varCons[t.Var], idx)
		m.varCoef[t.Var] = append(m.varCoef[t.Var], t.Coef)
	}
}

// merge combines repeated variables and drops zero coefficients, keeping first-seen order
func merge(e Expr) []Term {
	pos := make(map[VarID]int, len(e))
	out := make([]Term, 0, len(e))
	for _, t := range e {
		if i, ok := pos[t.Var]; ok {
			out[i].Coef += t.Coef
			continue
		}
		pos[t.Var] = len(out)
		out = append(out, t)
	}
	kept := out[:0]
	for _, t := range out {
		if t.Coef != 0 {
			kept = append(kept, t)
		}
	}
	return kept
}

func negate(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	return out
}

// propagate tightens bounds until a fixpoint, starting from the queued constraints.
// Returns false when some constraint cannot be satisfied.
func (m *model) propagate(lo, hi []int, queue []int) bool {
	queued := make([]bool, len(m.cons))
	for _, c := range queue {
		queued[c] = true
	}
	for len(queue) > 0 {
		ci := queue[0]
		queue = queue[1:]
		queued[ci] = false
		c := m.cons[ci]

		minAct := 0
		for _, t := range c.terms {
			if t.Coef > 0 {
				minAct += t.Coef * lo[t.Var]
			} else {
				minAct += t.Coef * hi[t.Var]
			}
		}
		if minAct > c.rhs {
			return false
		}
		slack := c.rhs - minAct

		for _, t := range c.terms {
			v := t.Var
			changed := false
			if t.Coef > 0 {
				if bound := lo[v] + slack/t.Coef; bound < hi[v] {
					hi[v] = bound
					changed = true
				}
			} else {
				if bound := hi[v] - slack/(-t.Coef); bound > lo[v] {
					lo[v] = bound
					changed = true
				}
			}
			if !changed {
				continue
			}
			if lo[v] > hi[v] {
				return false
			}
			for _, other := range m.varCons[v] {
				if other != ci && !queued[other] {
					queued[other] = true
					queue = append(queue, other)
				}
			}
		}
	}
	return true
}

// upperBound is the best objective reachable within the current domains
func (m *model) upperBound(lo, hi []int) int {
	ub := 0
	for v, c := range m.obj {
		if c > 0 {
			ub += c * hi[v]
		} else if c < 0 {
			ub += c * lo[v]
		}
	}
	return ub
}

type node struct {
	lo []int
	hi []int
}

// pick chooses where to branch. Every variable starts at its default, the
// bound the objective prefers. Among the constraints that point violates it
// takes the one with the fewest variables able to repair it, then the repair
// that breaks the fewest satisfied constraints. up reports whether the repair
// raises the variable.
//
// When the default point satisfies every constraint it is the best solution
// in the node and is returned as point with v == -1. A nil point with v == -1
// means the node has no solution.
func (m *model) pick(lo, hi []int) (v int, up bool, point []int) {
	point = make([]int, len(lo))
	for i := range point {
		if m.obj[i] > 0 {
			point[i] = hi[i]
		} else {
			point[i] = lo[i]
		}
	}

	slack := make([]int, len(m.cons))
	worst, worstMovers := -1, 0
	for ci, c := range m.cons {
		act := 0
		for _, t := range c.terms {
			act += t.Coef * point[t.Var]
		}
		slack[ci] = c.rhs - act
		if slack[ci] >= 0 {
			continue
		}
		movers := 0
		for _, t := range c.terms {
			if m.movable(t, lo, hi, point) {
				movers++
			}
		}
		if worst < 0 || movers < worstMovers {
			worst, worstMovers = ci, movers
		}
	}
	if worst < 0 {
		return -1, false, point
	}
	if worstMovers == 0 {
		return -1, false, nil
	}

	best, bestBroken := -1, 0
	for _, t := range m.cons[worst].terms {
		if !m.movable(t, lo, hi, point) {
			continue
		}
		raise := t.Coef < 0
		broken := 0
		for k, ci := range m.varCons[t.Var] {
			if ci == worst || slack[ci] < 0 {
				continue
			}
			delta := m.varCoef[t.Var][k]
			if !raise {
				delta = -delta
			}
			if slack[ci]-delta < 0 {
				broken++
			}
		}
		if best < 0 || broken < bestBroken {
			best, bestBroken, up = int(t.Var), broken, raise
		}
	}
	return best, up, nil
}

// movable reports whether moving the term's variable off its default lowers
// the constraint's activity
func (m *model) movable(t Term, lo, hi, point []int) bool {
	v := t.Var
	if lo[v] == hi[v] {
		return false
	}
	if t.Coef > 0 {
		return point[v] == hi[v]
	}
	return point[v] == lo[v]
}

// children splits v into one end of its domain and the rest
func (m *model) children(n node, v int, up bool) []node {
	first := node{lo: append([]int(nil), n.lo...), hi: append([]int(nil), n.hi...)}
	second := node{lo: append([]int(nil), n.lo...), hi: append([]int(nil), n.hi...)}
	if up {
		first.lo[v] = n.hi[v]
		second.hi[v] = n.hi[v] - 1
	} else {
		first.hi[v] = n.lo[v]
		second.lo[v] = n.lo[v] + 1
	}

	out := make([]node, 0, 2)
	for _, child := range []node{first, second} {
		if m.propagate(child.lo, child.hi, append([]int(nil), m.varCons[v]...)) {
			out = append(out, child)
		}
	}
	return out
}

// incumbent is the best solution found so far, shared between workers
type incumbent struct {
	mu     sync.Mutex
	found  atomic.Bool
	best   atomic.Int64
	values []int
}

func (inc *incumbent) offer(objective int, values []int) bool {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	if inc.found.Load() && int64(objective) <= inc.best.Load() {
		return false
	}
	inc.values = append([]int(nil), values...)
	inc.best.Store(int64(objective))
	inc.found.Store(true)
	return true
}

// prunes reports whether a subtree with this bound cannot beat the incumbent
func (inc *incumbent) prunes(ub int) bool {
	return inc.found.Load() && int64(ub) <= inc.best.Load()
}

type run struct {
	ctx     context.Context
	model   *model
	inc     *incumbent
	nodes   atomic.Int64
	stopped atomic.Bool
	logger  *zap.Logger
}

func (r *run) visit() bool {
	if r.stopped.Load() {
		return false
	}
	if r.nodes.Add(1)&checkInterval == 0 && r.ctx.Err() != nil {
		r.stopped.Store(true)
		return false
	}
	return true
}

func (r *run) leaf(point []int) {
	if err := r.model.problem.Check(point); err != nil {
		// pick only returns points that satisfy every constraint
		r.logger.Error("Leaf failed feasibility check", zap.Error(err))
		return
	}
	objective := r.model.problem.objective.Eval(point)
	if r.inc.offer(objective, point) {
		r.logger.Debug("New incumbent",
			zap.Int("objective", objective),
			zap.Int64("nodes", r.nodes.Load()))
	}
}

func (r *run) dfs(n node) {
	if !r.visit() {
		return
	}
	if r.inc.prunes(r.model.upperBound(n.lo, n.hi)) {
		return
	}
	v, up, point := r.model.pick(n.lo, n.hi)
	if v < 0 {
		if point != nil {
			r.leaf(point)
		}
		return
	}
	for _, child := range r.model.children(n, v, up) {
		r.dfs(child)
		if r.stopped.Load() {
			return
		}
	}
}

// frontier expands the tree breadth first until there are enough open subtrees
// to keep the workers busy. Leaves met on the way are evaluated directly.
func (r *run) frontier(root node, size int) []node {
	open := []node{root}
	for len(open) > 0 && len(open) < size {
		n := open[0]
		v, up, point := r.model.pick(n.lo, n.hi)
		if v < 0 {
			open = open[1:]
			if point != nil {
				r.leaf(point)
			}
			continue
		}
		open = append(open[1:], r.model.children(n, v, up)...)
	}
	return open
}

// Solve runs branch and bound within the time limit
func (s *Search) Solve(ctx context.Context, p *Problem, params Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate problem: %w", err)
	}

	start := time.Now()
	if params.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.TimeLimit)
		defer cancel()
	}
	workers := max(params.Workers, 1)

	m := newModel(p)
	r := &run{ctx: ctx, model: m, inc: &incumbent{}, logger: s.logger}

	root := node{lo: make([]int, p.NumVars()), hi: make([]int, p.NumVars())}
	for _, v := range p.vars {
		root.lo[v.ID], root.hi[v.ID] = v.Lo, v.Hi
	}
	all := make([]int, len(m.cons))
	for i := range all {
		all[i] = i
	}

	s.logger.Debug("Starting search",
		zap.Int("vars", p.NumVars()),
		zap.Int("constraints", len(m.cons)),
		zap.Int("workers", workers),
		zap.Duration("timeLimit", params.TimeLimit))

	if m.propagate(root.lo, root.hi, all) {
		if workers == 1 {
			r.dfs(root)
		} else {
			var g errgroup.Group
			g.SetLimit(workers)
			for _, sub := range r.frontier(root, workers*subtreesPerWorker) {
				g.Go(func() error {
					r.dfs(sub)
					return nil
				})
			}
			_ = g.Wait()
		}
	}

	found := r.inc.found.Load()
	if r.stopped.Load() && !found && errors.Is(ctx.Err(), context.Canceled) {
		return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
	}

	result := &Result{WallTime: time.Since(start), Nodes: r.nodes.Load()}
	switch {
	case r.stopped.Load() && found:
		result.Status = Feasible
	case r.stopped.Load():
		result.Status = TimeoutNoSolution
	case found:
		result.Status = Optimal
	default:
		result.Status = Infeasible
	}
	if found {
		result.Values = r.inc.values
		result.Objective = int(r.inc.best.Load())
	}

	s.logger.Debug("Search finished",
		zap.String("status", string(result.Status)),
		zap.Int64("nodes", result.Nodes),
		zap.Duration("wallTime", result.WallTime))

	return result, nil
}
