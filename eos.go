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

// Physical constants [cgs].
const (
	KBoltzmann = 1.380658e-16 // Boltzmann constant [erg/K]
	MHydrogen  = 1.6733e-24   // hydrogen atom mass [g]
)

// pressFloor keeps the primitive pressure positive when the conserved
// energy is dominated by the kinetic term [erg/cm³].
const pressFloor = 1e-30

// EOS converts between conserved and primitive variables for an ideal gas.
type EOS struct {
	Gamma float64 // ratio of specific heats
	Mu    float64 // mean molecular weight in hydrogen masses
}

// NewEOS returns an equation of state for a monatomic ideal gas of
// neutral hydrogen.
func NewEOS() *EOS {
	return &EOS{Gamma: 5. / 3., Mu: 1}
}

// Primitives converts the conserved vector u into the primitive vector p
// and returns the gas temperature [K]. Passive scalars and species are
// carried as densities in both representations and copied through
// unchanged. p must have the same length as u.
func (e *EOS) Primitives(u, p []float64) float64 {
	rho := u[IRho]
	p[IRho] = rho
	p[IVx] = u[IVx] / rho
	p[IVy] = u[IVy] / rho
	p[IVz] = u[IVz] / rho
	ek := 0.5 * rho * (p[IVx]*p[IVx] + p[IVy]*p[IVy] + p[IVz]*p[IVz])
	press := (u[IPress] - ek) * (e.Gamma - 1)
	if press < pressFloor {
		press = pressFloor
	}
	p[IPress] = press
	copy(p[ITracer:], u[ITracer:])
	return e.Temperature(rho, press)
}

// Conserved converts the primitive vector p into the conserved vector u.
// u must have the same length as p.
func (e *EOS) Conserved(p, u []float64) {
	rho := p[IRho]
	u[IRho] = rho
	u[IVx] = rho * p[IVx]
	u[IVy] = rho * p[IVy]
	u[IVz] = rho * p[IVz]
	ek := 0.5 * rho * (p[IVx]*p[IVx] + p[IVy]*p[IVy] + p[IVz]*p[IVz])
	u[IPress] = ek + p[IPress]/(e.Gamma-1)
	copy(u[ITracer:], p[ITracer:])
}

// Temperature returns the gas temperature [K] for the given mass density
// [g/cm³] and pressure [erg/cm³].
func (e *EOS) Temperature(rho, press float64) float64 {
	return press * e.Mu * MHydrogen / (rho * KBoltzmann)
}
