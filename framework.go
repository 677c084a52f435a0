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

// Package ionmap advances a stiff chemical/ionic reaction network on the
// interior cells of a structured 3-D simulation grid, coupling the network
// to a host hydrodynamics solver. The host supplies conserved fluid state,
// the timestep, and per-cell radiation rates; ionmap converts conserved to
// primitive state, integrates the reaction network implicitly in every cell,
// and folds the updated species densities back into both state arrays.
package ionmap

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "0.1.0"

// Indices of the dynamical variables within the conserved and primitive
// vectors of each cell. The species segment starts after the advected
// tracer slot.
const (
	IRho = iota // mass density [g/cm³]
	IVx         // x velocity [cm/s] (x momentum when conserved)
	IVy
	IVz
	IPress // gas pressure [erg/cm³] (total energy when conserved)

	// ITracer holds the derived passive scalar: the sum of the two
	// network-designated species densities. It is advected by the host
	// but recomputed, not integrated, here.
	ITracer

	// SpeciesOffset is the index of the first chemical species.
	SpeciesOffset
)

// Cell holds the state of a single interior grid cell.
type Cell struct {
	U      []float64 // conserved variables
	Primit []float64 // primitive variables
	T      float64   // gas temperature [K]

	I, J, K int // interior cell indices within this subdomain

	X, Y, Z float64 // cell center relative to the reference point [cm]
	R       float64 // radial distance from the reference point [cm]

	mx sync.RWMutex
}

// Lock locks the cell for writing.
func (c *Cell) Lock() { c.mx.Lock() }

// Unlock unlocks the cell.
func (c *Cell) Unlock() { c.mx.Unlock() }

// RLock locks the cell for reading.
func (c *Cell) RLock() { c.mx.RLock() }

// RUnlock undoes a single RLock call.
func (c *Cell) RUnlock() { c.mx.RUnlock() }

// DomainManipulator is a class of functions that operate on the entire
// computational subdomain.
type DomainManipulator func(d *Domain) error

// CellManipulator is a class of functions that operate on a single grid
// cell, using the given timestep Δt [seconds].
type CellManipulator func(c *Cell, Δt float64)

// Domain holds the rank-local portion of the simulation grid together with
// the services needed to advance its chemistry.
type Domain struct {
	// Interior grid dimensions, excluding ghost cells.
	Nx, Ny, Nz int

	// Grid spacing [cm].
	Dx, Dy, Dz float64

	// Offset of this subdomain within the global grid [cells]. The
	// decomposition across ranks gives every rank a disjoint subvolume.
	X0, Y0, Z0 int

	// Rank identifies this subdomain's owner in diagnostics.
	Rank int

	// Ref is the fixed reference point (e.g. the position of the central
	// star) that cell positions are measured from [cm].
	Ref [3]float64

	// GateRadius is the radius around Ref within which chemistry is
	// integrated. Cells outside keep their species frozen.
	GateRadius float64

	// Dt is the hydrodynamic timestep in code units; TimeScale converts
	// code time units to seconds.
	Dt        float64
	TimeScale float64

	Net Network        // reaction network
	Rad RadiationField // per-cell photoionization and photoheating rates
	EOS *EOS           // conserved ↔ primitive conversion

	Log logrus.FieldLogger

	// Functions to run at the beginning of the simulation, once per
	// timestep while the simulation is running, and after the last step.
	InitFuncs    []DomainManipulator
	RunFuncs     []DomainManipulator
	CleanupFuncs []DomainManipulator

	// Done specifies whether the simulation is finished.
	Done bool

	cells []*Cell

	// Per-pass chemistry tallies; see chemistry.go.
	chemFailed  int64
	chemIters   int64
	chemMaxIter int64
}

// Init initializes the simulation by running the InitFuncs.
func (d *Domain) Init() error {
	if d.Net == nil {
		return fmt.Errorf("ionmap: a reaction network is required to initialize the domain")
	}
	if d.EOS == nil {
		d.EOS = NewEOS()
	}
	if d.Rad == nil {
		d.Rad = Uniform{}
	}
	if d.TimeScale == 0 {
		d.TimeScale = 1
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	for _, f := range d.InitFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running the RunFuncs until Done is true.
func (d *Domain) Run() error {
	for !d.Done {
		for _, f := range d.RunFuncs {
			if err := f(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup runs the CleanupFuncs.
func (d *Domain) Cleanup() error {
	for _, f := range d.CleanupFuncs {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

// Cells returns the interior cells in this subdomain, ordered with the
// x index varying fastest.
func (d *Domain) Cells() []*Cell { return d.cells }

// Neq returns the length of the conserved and primitive vectors: the
// dynamical variables, the tracer, and one slot per species.
func (d *Domain) Neq() int { return SpeciesOffset + d.Net.Len() }

// Cell returns the cell with interior indices (i,j,k), or nil if the
// indices lie outside the subdomain.
func (d *Domain) Cell(i, j, k int) *Cell {
	if i < 0 || i >= d.Nx || j < 0 || j >= d.Ny || k < 0 || k >= d.Nz {
		return nil
	}
	return d.cells[(k*d.Ny+j)*d.Nx+i]
}

// RegularGrid returns a function that allocates the subdomain's cells and
// computes their positions relative to the reference point from the rank's
// grid offset and the cell spacing.
func RegularGrid() DomainManipulator {
	return func(d *Domain) error {
		if d.Nx <= 0 || d.Ny <= 0 || d.Nz <= 0 {
			return fmt.Errorf("ionmap: invalid grid dimensions %d×%d×%d", d.Nx, d.Ny, d.Nz)
		}
		if d.Dx <= 0 || d.Dy <= 0 || d.Dz <= 0 {
			return fmt.Errorf("ionmap: invalid grid spacing %g×%g×%g", d.Dx, d.Dy, d.Dz)
		}
		neq := d.Neq()
		d.cells = make([]*Cell, 0, d.Nx*d.Ny*d.Nz)
		for k := 0; k < d.Nz; k++ {
			for j := 0; j < d.Ny; j++ {
				for i := 0; i < d.Nx; i++ {
					c := &Cell{
						U:      make([]float64, neq),
						Primit: make([]float64, neq),
						I:      i, J: j, K: k,
					}
					c.X = (float64(d.X0+i)+0.5)*d.Dx - d.Ref[0]
					c.Y = (float64(d.Y0+j)+0.5)*d.Dy - d.Ref[1]
					c.Z = (float64(d.Z0+k)+0.5)*d.Dz - d.Ref[2]
					c.R = math.Sqrt(c.X*c.X + c.Y*c.Y + c.Z*c.Z)
					d.cells = append(d.cells, c)
				}
			}
		}
		return nil
	}
}

// InitialConditions returns a function that applies f to the primitive
// vector of every cell and then derives the matching conserved state and
// temperature.
func InitialConditions(f func(c *Cell)) DomainManipulator {
	return func(d *Domain) error {
		for _, c := range d.cells {
			f(c)
			d.EOS.Conserved(c.Primit, c.U)
			c.T = d.EOS.Temperature(c.Primit[IRho], c.Primit[IPress])
		}
		return nil
	}
}
