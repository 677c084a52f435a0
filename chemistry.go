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
	"sync"
	"sync/atomic"
)

// UpdateChem returns a function that advances the reaction network in
// every interior cell of the subdomain over one hydrodynamic timestep.
//
// For each cell it converts conserved to primitive variables (always, so
// downstream code sees consistent primitives even where chemistry is
// frozen), integrates the network implicitly if the cell lies within the
// gate radius, writes the species densities back into both state arrays,
// and recomputes the derived tracer as the sum of the network's passive
// pair.
//
// Cells whose Newton-Raphson iteration exhausts its budget keep their
// best-effort solution and are tallied; if any cell in the pass failed,
// one diagnostic line naming the rank and failure count is logged. The
// sweep itself never aborts. Callers needing strict convergence must
// check ChemStats after each pass.
func UpdateChem() DomainManipulator {
	// The cell manipulators and their solver workspaces are built once,
	// on the first pass, and reused for the life of the domain.
	var calc DomainManipulator
	return func(d *Domain) error {
		if calc == nil {
			calc = Calculations(convertPrimitives(d), cellChemistry(d))
		}
		d.resetChemStats()
		if err := calc(d); err != nil {
			return err
		}
		if failed, _, _ := d.ChemStats(); failed > 0 {
			d.Log.Warnf("ionmap: rank %d: chemistry did not converge in %d cells", d.Rank, failed)
		}
		return nil
	}
}

// convertPrimitives returns a function that updates a cell's primitive
// vector and temperature from its conserved vector.
func convertPrimitives(d *Domain) CellManipulator {
	eos := d.EOS
	return func(c *Cell, Δt float64) {
		c.T = eos.Primitives(c.U, c.Primit)
	}
}

// cellChemistry returns a function that runs the implicit chemistry step
// on one cell and folds the result back into the cell's state vectors.
func cellChemistry(d *Domain) CellManipulator {
	nspec := d.Net.Len()
	ia, ib := d.Net.PassivePair()

	// Calculations runs one closure from several goroutines; each worker
	// borrows its own solver workspace.
	pool := sync.Pool{New: func() interface{} { return NewSolver(d.Net) }}

	return func(c *Cell, Δt float64) {
		y := c.Primit[SpeciesOffset : SpeciesOffset+nspec]

		if c.R <= d.GateRadius {
			s := pool.Get().(*Solver)
			s.Net.Totals(c.Primit[IRho], s.y0)
			phiIon, phiHeat := d.Rad.Rates(c)
			converged, iters := s.Step(y, s.y0, c.T, Δt, phiIon, phiHeat)
			pool.Put(s)
			d.tallyChem(converged, iters)
		}

		copy(c.U[SpeciesOffset:], y)
		tracer := y[ia] + y[ib]
		c.Primit[ITracer] = tracer
		c.U[ITracer] = tracer
	}
}

// ChemStats returns the tallies from the most recent chemistry pass: the
// number of cells whose iteration failed to converge, the total number of
// Newton-Raphson iterations, and the largest per-cell iteration count.
func (d *Domain) ChemStats() (failed, iters, maxIter int64) {
	return atomic.LoadInt64(&d.chemFailed),
		atomic.LoadInt64(&d.chemIters),
		atomic.LoadInt64(&d.chemMaxIter)
}

func (d *Domain) resetChemStats() {
	atomic.StoreInt64(&d.chemFailed, 0)
	atomic.StoreInt64(&d.chemIters, 0)
	atomic.StoreInt64(&d.chemMaxIter, 0)
}

// tallyChem accumulates one cell's outcome. Cells are processed
// concurrently, so the tallies are atomic.
func (d *Domain) tallyChem(converged bool, iters int) {
	if !converged {
		atomic.AddInt64(&d.chemFailed, 1)
	}
	atomic.AddInt64(&d.chemIters, int64(iters))
	for {
		old := atomic.LoadInt64(&d.chemMaxIter)
		if int64(iters) <= old || atomic.CompareAndSwapInt64(&d.chemMaxIter, old, int64(iters)) {
			return
		}
	}
}
