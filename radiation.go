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

	"github.com/ctessum/sparse"
)

// RadiationField supplies per-cell photoionization and photoheating rates.
// The chemistry core only reads these; computing them (e.g. by ray tracing
// from the radiation module) is the supplier's concern.
type RadiationField interface {
	// Rates returns the photoionization rate [1/s] and photoheating
	// rate [erg/s] for cell c.
	Rates(c *Cell) (phiIon, phiHeat float64)
}

// Uniform is a spatially constant radiation field.
type Uniform struct {
	PhiIon  float64 // photoionization rate [1/s]
	PhiHeat float64 // photoheating rate [erg/s]
}

// Rates implements RadiationField.
func (u Uniform) Rates(*Cell) (float64, float64) {
	return u.PhiIon, u.PhiHeat
}

// sigmaNu0 is the hydrogen photoionization cross section at the Lyman
// limit [cm²].
const sigmaNu0 = 6.3e-18

// PointSource is the optically thin radiation field of a single ionizing
// source at the domain's reference point: the photon flux dilutes
// geometrically with distance.
type PointSource struct {
	S0 float64 // ionizing photon rate [photons/s]

	// EPhoton is the mean energy deposited per photoionization [erg].
	EPhoton float64

	// RMin softens the field near the source, where the cell containing
	// the star would otherwise see a divergent flux [cm].
	RMin float64
}

// Rates implements RadiationField.
func (p PointSource) Rates(c *Cell) (float64, float64) {
	r := c.R
	if r < p.RMin {
		r = p.RMin
	}
	phi := p.S0 * sigmaNu0 / (4 * math.Pi * r * r)
	return phi, phi * p.EPhoton
}

// Gridded is a radiation field stored on the subdomain's grid, shaped
// (Nz, Ny, Nx) to match the cell ordering. It is what a coupled radiative
// transfer module fills in once per timestep.
type Gridded struct {
	PhiIon  *sparse.DenseArray
	PhiHeat *sparse.DenseArray
}

// NewGridded allocates a zero-valued gridded radiation field for a
// subdomain with the given interior dimensions.
func NewGridded(nx, ny, nz int) *Gridded {
	return &Gridded{
		PhiIon:  sparse.ZerosDense(nz, ny, nx),
		PhiHeat: sparse.ZerosDense(nz, ny, nx),
	}
}

// Rates implements RadiationField.
func (g *Gridded) Rates(c *Cell) (float64, float64) {
	return g.PhiIon.Get(c.K, c.J, c.I), g.PhiHeat.Get(c.K, c.J, c.I)
}
