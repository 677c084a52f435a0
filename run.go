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
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Calculations returns a function that concurrently runs a series of
// calculations on all of the subdomain's cells. The cells own disjoint
// state, so the workers share nothing but the cell slice itself.
func Calculations(calculators ...CellManipulator) DomainManipulator {

	nprocs := runtime.GOMAXPROCS(0) // number of processors
	var wg sync.WaitGroup

	return func(d *Domain) error {
		Δt := d.Dt * d.TimeScale // [s]
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				var c *Cell
				for ii := pp; ii < len(d.cells); ii += nprocs {
					c = d.cells[ii]
					c.Lock() // Lock the cell to avoid race conditions
					for _, f := range calculators {
						f(c, Δt)
					}
					c.Unlock()
				}
				wg.Done()
			}(pp)
		}
		wg.Wait()
		return nil
	}
}

// StepLimit returns a function that sets the Done flag after the
// simulation has run for nsteps timesteps. The timestep itself is fixed
// externally; there is no adaptive step-size control.
func StepLimit(nsteps int) DomainManipulator {
	step := 0
	return func(d *Domain) error {
		step++
		if step >= nsteps {
			d.Done = true
		}
		return nil
	}
}

// Log returns a function that writes simulation status messages to the
// domain's logger once per timestep.
func Log() DomainManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()

	iteration := 0
	tRun := 0.

	return func(d *Domain) error {
		iteration++
		tRun += d.Dt * d.TimeScale
		failed, iters, maxIter := d.ChemStats()
		d.Log.WithFields(map[string]interface{}{
			"step":        iteration,
			"walltime":    time.Since(startTime).Round(time.Millisecond).String(),
			"Δwalltime":   time.Since(timeStepTime).Round(time.Millisecond).String(),
			"t":           tRun,
			"newtonIters": iters,
			"maxIters":    maxIter,
			"failedCells": failed,
		}).Info("ionmap: advanced chemistry")
		timeStepTime = time.Now()
		return nil
	}
}

// TotalSpecies returns the sum over all cells of the density of the
// species with the given index, a cheap conservation diagnostic.
func (d *Domain) TotalSpecies(i int) float64 {
	vals := make([]float64, len(d.cells))
	for ii, c := range d.cells {
		c.RLock()
		vals[ii] = c.Primit[SpeciesOffset+i]
		c.RUnlock()
	}
	return floats.Sum(vals)
}
