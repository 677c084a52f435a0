/*
Copyright © 2026 the IonMAP authors.
This file is part of IonMAP.

IonMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

IonMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with IonMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionmap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Default numerical parameters for the implicit chemistry step.
const (
	// MaxNewtonIterations is the iteration budget for one cell.
	MaxNewtonIterations = 100

	// NewtonTolerance is the convergence tolerance on the largest
	// absolute component of the Newton correction. It is an absolute
	// tolerance, independent of the magnitude of the species densities.
	NewtonTolerance = 1e-4

	// DensityFloor is the smallest species density the solver will
	// produce [1/cm³]. Clamping to it keeps every density positive so
	// that downstream rate evaluations and logarithms stay finite.
	DensityFloor = 1e-40
)

// Solver integrates a reaction network implicitly over one timestep for a
// single cell using Newton-Raphson iteration with a dense linear solve.
// A Solver holds per-cell workspace and must not be shared between
// goroutines.
type Solver struct {
	Net Network

	MaxIter int     // iteration budget; default MaxNewtonIterations
	Tol     float64 // convergence tolerance; default NewtonTolerance
	Floor   float64 // density floor; default DensityFloor

	k    []float64
	dydt []float64
	yin  []float64
	y0   []float64
	jac  *mat.Dense
	rhs  *mat.VecDense
	δy   *mat.VecDense
}

// NewSolver creates a Solver for the given network.
func NewSolver(net Network) *Solver {
	n := net.Len()
	return &Solver{
		Net:     net,
		MaxIter: MaxNewtonIterations,
		Tol:     NewtonTolerance,
		Floor:   DensityFloor,
		k:       make([]float64, net.NumReactions()),
		dydt:    make([]float64, n),
		yin:     make([]float64, n),
		y0:      make([]float64, net.NumElements()),
		jac:     mat.NewDense(n, n, nil),
		rhs:     mat.NewVecDense(n, nil),
		δy:      mat.NewVecDense(n, nil),
	}
}

// Step advances the species vector y over Δt seconds at temperature T [K]
// with the given photoionization and photoheating rates. y0 holds the
// element totals that y must conserve; y is updated in place.
//
// The rate coefficients are evaluated once from T and the radiation rates
// and held fixed across the whole iteration; the backward-difference
// correction is applied to the first NumImplicit equations only. Every
// update is clamped to the density floor before the convergence test.
//
// Step returns whether the iteration converged within the budget and the
// number of iterations used. On non-convergence the last iterate is kept
// in y; the caller decides whether that is acceptable.
func (s *Solver) Step(y, y0 []float64, T, Δt, phiIon, phiHeat float64) (converged bool, iters int) {
	n := s.Net.Len()
	nimp := s.Net.NumImplicit()

	// The pre-step vector anchors the backward-difference term.
	copy(s.yin, y)

	s.Net.Rates(T, phiIon, phiHeat, s.k)

	// A vector carried in from the host advection can drift off the
	// element-conservation manifold; restart from a consistent guess
	// rather than iterating from an unphysical state.
	if s.Net.ConservationViolated(y, y0) {
		s.Net.InitialGuess(y, y0)
	}

	var lu mat.LU
	for it := 1; it <= s.MaxIter; it++ {
		s.Net.Derivs(y, s.k, y0, s.dydt)
		s.Net.Jacobian(y, s.k, s.jac)

		for i := 0; i < nimp; i++ {
			s.jac.Set(i, i, s.jac.At(i, i)-1/Δt)
			s.dydt[i] -= (y[i] - s.yin[i]) / Δt
		}
		for i := 0; i < n; i++ {
			s.rhs.SetVec(i, -s.dydt[i])
		}

		lu.Factorize(s.jac)
		if err := lu.SolveVecTo(s.δy, false, s.rhs); err != nil {
			// An ill-conditioned solve still produces a usable correction;
			// an exactly singular one (infinite condition number) leaves
			// the solution unwritten, so give up on this cell.
			if c, ok := err.(mat.Condition); !ok || math.IsInf(float64(c), 1) {
				return false, it
			}
		}

		maxΔ := 0.
		for i := 0; i < n; i++ {
			δ := s.δy.AtVec(i)
			y[i] += δ
			if y[i] < s.Floor {
				y[i] = s.Floor
			}
			if math.Abs(δ) > maxΔ {
				maxΔ = math.Abs(δ)
			}
		}
		if maxΔ <= s.Tol {
			return true, it
		}
	}
	return false, s.MaxIter
}
