package solver

import (
	"fmt"
)

// VarID identifies a variable within its Problem
type VarID int

// Var is a bounded integer decision variable. Boolean variables have bounds [0, 1].
type Var struct {
	ID   VarID
	Name string
	Lo   int
	Hi   int
}

// IsBool reports whether the variable is a 0/1 variable
func (v Var) IsBool() bool {
	return v.Lo == 0 && v.Hi == 1
}

// Term is a coefficient applied to a variable in a linear expression
type Term struct {
	Var  VarID
	Coef int
}

// Expr is a linear combination of variables
type Expr []Term

// Sum builds an expression adding every variable with coefficient 1
func Sum(vars ...VarID) Expr {
	e := make(Expr, 0, len(vars))
	for _, v := range vars {
		e = append(e, Term{Var: v, Coef: 1})
	}
	return e
}

// Plus returns the expression with coef*v appended
func (e Expr) Plus(v VarID, coef int) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Scale returns a copy of the expression with every coefficient multiplied by k
func (e Expr) Scale(k int) Expr {
	out := make(Expr, len(e))
	for i, t := range e {
		out[i] = Term{Var: t.Var, Coef: t.Coef * k}
	}
	return out
}

// Eval computes the expression for a full variable assignment
func (e Expr) Eval(values []int) int {
	total := 0
	for _, t := range e {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Sense is the relation of a linear constraint
type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "=="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// Constraint is a linear relation Expr <sense> RHS
type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   int
}

// Satisfied reports whether the constraint holds for a full variable assignment
func (c Constraint) Satisfied(values []int) bool {
	lhs := c.Expr.Eval(values)
	switch c.Sense {
	case LessOrEqual:
		return lhs <= c.RHS
	case GreaterOrEqual:
		return lhs >= c.RHS
	case Equal:
		return lhs == c.RHS
	}
	return false
}

// Problem is an integer linear model with a maximisation objective
type Problem struct {
	vars        []Var
	constraints []Constraint
	objective   Expr
}

// NewProblem creates an empty problem
func NewProblem() *Problem {
	return &Problem{}
}

// NewBoolVar adds a 0/1 variable
func (p *Problem) NewBoolVar(name string) VarID {
	return p.NewIntVar(0, 1, name)
}

// NewIntVar adds an integer variable bounded to [lo, hi]
func (p *Problem) NewIntVar(lo, hi int, name string) VarID {
	id := VarID(len(p.vars))
	p.vars = append(p.vars, Var{ID: id, Name: name, Lo: lo, Hi: hi})
	return id
}

// AddConstraint adds expr <sense> rhs
func (p *Problem) AddConstraint(name string, expr Expr, sense Sense, rhs int) {
	p.constraints = append(p.constraints, Constraint{Name: name, Expr: expr, Sense: sense, RHS: rhs})
}

// AddLessOrEqual adds expr <= rhs
func (p *Problem) AddLessOrEqual(name string, expr Expr, rhs int) {
	p.AddConstraint(name, expr, LessOrEqual, rhs)
}

// AddGreaterOrEqual adds expr >= rhs
func (p *Problem) AddGreaterOrEqual(name string, expr Expr, rhs int) {
	p.AddConstraint(name, expr, GreaterOrEqual, rhs)
}

// AddEquality adds expr == rhs
func (p *Problem) AddEquality(name string, expr Expr, rhs int) {
	p.AddConstraint(name, expr, Equal, rhs)
}

// Maximize replaces the objective
func (p *Problem) Maximize(expr Expr) {
	p.objective = expr
}

// Vars returns the variables in creation order
func (p *Problem) Vars() []Var { return p.vars }

// NumVars returns the number of variables
func (p *Problem) NumVars() int { return len(p.vars) }

// Constraints returns the constraints in insertion order
func (p *Problem) Constraints() []Constraint { return p.constraints }

// Objective returns the maximised expression
func (p *Problem) Objective() Expr { return p.objective }

// Validate checks that bounds are consistent and every term references a known variable
func (p *Problem) Validate() error {
	for _, v := range p.vars {
		if v.Lo > v.Hi {
			return fmt.Errorf("variable %s has empty domain [%d, %d]", v.Name, v.Lo, v.Hi)
		}
	}
	check := func(where string, e Expr) error {
		for _, t := range e {
			if t.Var < 0 || int(t.Var) >= len(p.vars) {
				return fmt.Errorf("%s references unknown variable %d", where, t.Var)
			}
		}
		return nil
	}
	for _, c := range p.constraints {
		if err := check("constraint "+c.Name, c.Expr); err != nil {
			return err
		}
	}
	return check("objective", p.objective)
}

// Check verifies a full assignment against every bound and constraint
func (p *Problem) Check(values []int) error {
	if len(values) != len(p.vars) {
		return fmt.Errorf("expected %d values, got %d", len(p.vars), len(values))
	}
	for _, v := range p.vars {
		if x := values[v.ID]; x < v.Lo || x > v.Hi {
			return fmt.Errorf("variable %s = %d outside [%d, %d]", v.Name, x, v.Lo, v.Hi)
		}
	}
	for _, c := range p.constraints {
		if !c.Satisfied(values) {
			return fmt.Errorf("constraint %s violated: %d %s %d", c.Name, c.Expr.Eval(values), c.Sense, c.RHS)
		}
	}
	return nil
}
