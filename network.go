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

import "gonum.org/v1/gonum/mat"

// Network is an interface for chemical/ionic reaction networks.
//
// A network describes n_spec species, n_elem conserved chemical elements
// and n_reac reactions. The first NumImplicit species equations are
// differential and are integrated implicitly; the remaining equations are
// algebraic constraints (element conservation, charge balance) that the
// solver satisfies together with them.
type Network interface {
	// Len returns the number of species in the network.
	Len() int

	// NumElements returns the number of conserved chemical elements.
	NumElements() int

	// NumReactions returns the number of reactions.
	NumReactions() int

	// NumImplicit returns the number of species equations that receive
	// the implicit backward-difference correction. It is at most Len().
	NumImplicit() int

	// Rates fills k, which must have length NumReactions(), with the
	// reaction rate coefficients for the given temperature [K],
	// photoionization rate [1/s], and photoheating rate [erg/s]. The
	// rates are independent of the species densities.
	Rates(T, phiIon, phiHeat float64, k []float64)

	// Derivs fills dydt with the time derivative of the species vector y
	// given the rate coefficients k and the element totals y0. Algebraic
	// rows hold the constraint residuals instead of time derivatives.
	Derivs(y, k, y0, dydt []float64)

	// Jacobian fills jac, which must be Len()×Len(), with ∂(dydt)/∂y at
	// the given species vector and rate coefficients.
	Jacobian(y, k []float64, jac *mat.Dense)

	// ConservationViolated reports whether y is inconsistent with the
	// element totals y0 under the network's conservation laws.
	ConservationViolated(y, y0 []float64) bool

	// InitialGuess overwrites y with a species vector that is consistent
	// with the element totals y0.
	InitialGuess(y, y0 []float64)

	// Totals fills y0, which must have length NumElements(), with the
	// element number-density totals implied by the mass density rho
	// [g/cm³].
	Totals(rho float64, y0 []float64)

	// PassivePair returns the indices of the two species whose summed
	// densities form the derived passive scalar written to the tracer
	// slot of the state vectors.
	PassivePair() (int, int)

	// Species returns the names of the species in the network, ordered
	// by array index.
	Species() []string

	// Value returns the value of the given variable in the given Cell.
	// It returns an error if given an invalid variable name.
	Value(c *Cell, variable string) (float64, error)

	// Units returns the units of the given variable, or an error if the
	// variable name is invalid.
	Units(variable string) (string, error)
}
