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

// Package hydrogen contains a three-species hydrogen ionization network:
// ionized hydrogen, neutral hydrogen, and free electrons, coupled by
// collisional ionization, case-B radiative recombination, and
// photoionization. Only the ionized-hydrogen equation is differential;
// neutral hydrogen follows from hydrogen-nucleus conservation and the
// electron density from charge neutrality.
package hydrogen

import (
	"fmt"
	"math"

	"github.com/stellarmodel/ionmap"
	"gonum.org/v1/gonum/mat"
)

// Network fulfils the github.com/stellarmodel/ionmap.Network interface.
type Network struct{}

// Indices of individual species in arrays.
const (
	iHII int = iota // ionized hydrogen
	iHI             // neutral hydrogen
	iE              // free electrons
)

// Indices of individual reactions in the rate coefficient array.
const (
	rColl  int = iota // collisional ionization, HI + e⁻ → HII + 2e⁻
	rRec              // case-B recombination, HII + e⁻ → HI + γ
	rPhoto            // photoionization, HI + γ → HII + e⁻
)

// consTol is the relative tolerance on hydrogen-nucleus conservation and
// charge neutrality beyond which an incoming species vector is treated as
// inconsistent.
const consTol = 1e-3

// Len returns the number of species in this network (3).
func (n Network) Len() int { return 3 }

// NumElements returns the number of conserved elements (1, hydrogen).
func (n Network) NumElements() int { return 1 }

// NumReactions returns the number of reactions (3).
func (n Network) NumReactions() int { return 3 }

// NumImplicit returns the number of implicitly integrated equations (1,
// the ionized-hydrogen equation).
func (n Network) NumImplicit() int { return 1 }

// Rates fills k with the rate coefficients at temperature T [K] and
// photoionization rate phiIon [1/s]. The collisional ionization and
// case-B recombination fits are the standard ones used in photoionization
// calculations. phiHeat does not enter the rates; heating is the host
// energy equation's concern.
func (n Network) Rates(T, phiIon, phiHeat float64, k []float64) {
	k[rColl] = 5.83e-11 * math.Sqrt(T) * math.Exp(-157828/T)
	k[rRec] = 2.59e-13 * math.Pow(T/1e4, -0.7)
	k[rPhoto] = phiIon
}

// Derivs fills dydt with the ionized-hydrogen time derivative in row 0
// and the conservation and charge-neutrality residuals in rows 1 and 2.
func (n Network) Derivs(y, k, y0, dydt []float64) {
	dydt[iHII] = k[rColl]*y[iHI]*y[iE] + k[rPhoto]*y[iHI] - k[rRec]*y[iHII]*y[iE]
	dydt[iHI] = y0[0] - y[iHI] - y[iHII]
	dydt[iE] = y[iHII] - y[iE]
}

// Jacobian fills jac with the derivative of Derivs with respect to y.
func (n Network) Jacobian(y, k []float64, jac *mat.Dense) {
	jac.Set(iHII, iHII, -k[rRec]*y[iE])
	jac.Set(iHII, iHI, k[rColl]*y[iE]+k[rPhoto])
	jac.Set(iHII, iE, k[rColl]*y[iHI]-k[rRec]*y[iHII])

	jac.Set(iHI, iHII, -1)
	jac.Set(iHI, iHI, -1)
	jac.Set(iHI, iE, 0)

	jac.Set(iE, iHII, 1)
	jac.Set(iE, iHI, 0)
	jac.Set(iE, iE, -1)
}

// ConservationViolated reports whether y breaks hydrogen-nucleus
// conservation or charge neutrality relative to the nucleus total y0[0].
func (n Network) ConservationViolated(y, y0 []float64) bool {
	nH := y0[0]
	if nH <= 0 {
		return true
	}
	if math.Abs(y[iHII]+y[iHI]-nH) > consTol*nH {
		return true
	}
	return math.Abs(y[iHII]-y[iE]) > consTol*nH
}

// InitialGuess overwrites y with a consistent species vector, preserving
// the incoming ionization fraction where one can be formed.
func (n Network) InitialGuess(y, y0 []float64) {
	nH := y0[0]
	x := 0.5
	if sum := y[iHII] + y[iHI]; sum > 0 {
		x = y[iHII] / sum
	}
	if x < 1e-10 {
		x = 1e-10
	} else if x > 1 {
		x = 1
	}
	y[iHII] = x * nH
	y[iHI] = (1 - x) * nH
	y[iE] = y[iHII]
}

// Totals fills y0 with the hydrogen-nucleus number density implied by the
// mass density rho [g/cm³], assuming a pure hydrogen gas.
func (n Network) Totals(rho float64, y0 []float64) {
	y0[0] = rho / ionmap.MHydrogen
}

// PassivePair returns the neutral and ionized hydrogen indices; their sum
// is the advected total-hydrogen tracer.
func (n Network) PassivePair() (int, int) { return iHI, iHII }

// Species returns the names of the species in this network.
func (n Network) Species() []string {
	return []string{"HII", "HI", "e-"}
}

// specIndices maps variable names to species array indices.
var specIndices = map[string]int{
	"HII": iHII,
	"HI":  iHI,
	"e-":  iE,
}

// Value returns the number density of the given species in the given
// Cell, or the derived ionization fraction for the variable name "xHII".
// It returns an error if given an invalid variable name.
func (n Network) Value(c *ionmap.Cell, variable string) (float64, error) {
	if i, ok := specIndices[variable]; ok {
		return c.Primit[ionmap.SpeciesOffset+i], nil
	}
	if variable == "xHII" {
		nHII := c.Primit[ionmap.SpeciesOffset+iHII]
		nHI := c.Primit[ionmap.SpeciesOffset+iHI]
		if nHII+nHI == 0 {
			return 0, nil
		}
		return nHII / (nHII + nHI), nil
	}
	return math.NaN(), fmt.Errorf("hydrogen: invalid variable name %s; valid names are %v and xHII", variable, n.Species())
}

// Units returns the units of the given variable, or an error if the
// variable name is invalid.
func (n Network) Units(variable string) (string, error) {
	if _, ok := specIndices[variable]; ok {
		return "1/cm³", nil
	}
	if variable == "xHII" {
		return "dimensionless", nil
	}
	return "", fmt.Errorf("hydrogen: invalid variable name %s; valid names are %v and xHII", variable, n.Species())
}
