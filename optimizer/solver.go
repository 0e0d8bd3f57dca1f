package optimizer

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a Problem.Solve call.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusTimeLimit  Status = "time-limit"
	StatusError      Status = "error"
)

// Solution is the result of solving a Problem.
type Solution struct {
	Status Status
	Values []float64 // indexed by the variable indices returned from AddVariable
	Cost   float64
}

type row struct {
	coeffs map[int]float64
	rhs    float64
}

// Problem is a small builder around a standard-form LP solver. Callers add
// variables and constraints by index, set a sparse objective, and solve
// under a wall-clock time limit. This keeps the rest of the optimizer
// decoupled from the concrete solver: Problem is the only type in this
// package that knows about gonum's lp.Simplex.
type Problem struct {
	numVars   int
	objective map[int]float64
	le        []row
	ge        []row
	eq        []row
}

// NewProblem returns an empty problem with no variables.
func NewProblem() *Problem {
	return &Problem{objective: make(map[int]float64)}
}

// AddVariable declares a new continuous variable constrained to be >= 0 and
// returns its index.
func (p *Problem) AddVariable() int {
	idx := p.numVars
	p.numVars++
	return idx
}

// SetObjective sets the minimize-objective's coefficients; unset indices
// default to 0.
func (p *Problem) SetObjective(coeffs map[int]float64) {
	for idx, c := range coeffs {
		p.objective[idx] = c
	}
}

// AddLEConstraint adds `Σ coeffs[i]·x[i] <= rhs`.
func (p *Problem) AddLEConstraint(coeffs map[int]float64, rhs float64) {
	p.le = append(p.le, row{coeffs: coeffs, rhs: rhs})
}

// AddGEConstraint adds `Σ coeffs[i]·x[i] >= rhs`.
func (p *Problem) AddGEConstraint(coeffs map[int]float64, rhs float64) {
	p.ge = append(p.ge, row{coeffs: coeffs, rhs: rhs})
}

// AddEQConstraint adds `Σ coeffs[i]·x[i] = rhs`.
func (p *Problem) AddEQConstraint(coeffs map[int]float64, rhs float64) {
	p.eq = append(p.eq, row{coeffs: coeffs, rhs: rhs})
}

// Solve runs the simplex method under a hard wall-clock budget. A timeout
// is reported as StatusTimeLimit with no values; the caller is expected to
// fall back to another schedule in that case, matching every other
// non-optimal outcome.
func (p *Problem) Solve(timeLimit time.Duration) Solution {
	type result struct {
		z   float64
		x   []float64
		err error
	}
	done := make(chan result, 1)

	go func() {
		c, a, b := p.standardForm()
		z, x, err := lp.Simplex(c, a, b, 0, nil)
		done <- result{z: z, x: x, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return p.classifyError(r.err)
		}
		return Solution{Status: StatusOptimal, Values: r.x[:p.numVars], Cost: r.z}
	case <-time.After(timeLimit):
		return Solution{Status: StatusTimeLimit}
	}
}

// LPScheduler serializes access to the LP solver. The solver is assumed
// non-reentrant per process-wide instance: callers share one LPScheduler
// and queue behind its mutex rather than calling Problem.Solve directly,
// implementing the pool-of-one worker contract around Simplex.
type LPScheduler struct {
	mu sync.Mutex
}

// DefaultLPScheduler is the process-wide LP solver slot used by Schedule.
var DefaultLPScheduler = &LPScheduler{}

// Solve serializes p.Solve(timeLimit) against every other caller sharing
// this scheduler.
func (s *LPScheduler) Solve(p *Problem, timeLimit time.Duration) Solution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return p.Solve(timeLimit)
}

func (p *Problem) classifyError(err error) Solution {
	switch err {
	case lp.ErrInfeasible:
		return Solution{Status: StatusInfeasible}
	case lp.ErrUnbounded:
		return Solution{Status: StatusUnbounded}
	default:
		return Solution{Status: StatusError}
	}
}

// standardForm rewrites the problem into `minimize c^T x subject to
// A x = b, x >= 0`, introducing one slack variable per <= row and one
// surplus variable per >= row.
func (p *Problem) standardForm() (c []float64, a *mat.Dense, b []float64) {
	numSlack := len(p.le) + len(p.ge)
	total := p.numVars + numSlack

	c = make([]float64, total)
	for idx, coeff := range p.objective {
		c[idx] = coeff
	}

	numRows := len(p.le) + len(p.ge) + len(p.eq)
	data := make([]float64, numRows*total)
	b = make([]float64, numRows)

	rowIdx := 0
	slackCol := p.numVars
	writeRow := func(r row) []float64 {
		start := rowIdx * total
		for idx, coeff := range r.coeffs {
			data[start+idx] = coeff
		}
		return data[start : start+total]
	}

	for _, r := range p.le {
		rw := writeRow(r)
		rw[slackCol] = 1
		b[rowIdx] = r.rhs
		slackCol++
		rowIdx++
	}
	for _, r := range p.ge {
		rw := writeRow(r)
		rw[slackCol] = -1
		b[rowIdx] = r.rhs
		slackCol++
		rowIdx++
	}
	for _, r := range p.eq {
		writeRow(r)
		b[rowIdx] = r.rhs
		rowIdx++
	}

	a = mat.NewDense(numRows, total, data)
	return c, a, b
}
