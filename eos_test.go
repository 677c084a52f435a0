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
	"testing"
)

func TestEOSRoundTrip(t *testing.T) {
	e := NewEOS()
	p := []float64{1e-22, 1e5, -2e5, 3e5, 1e-10, 0.5, 0.25}
	u := make([]float64, len(p))
	p2 := make([]float64, len(p))

	e.Conserved(p, u)
	e.Primitives(u, p2)

	for i := range p {
		if math.Abs(p2[i]-p[i]) > 1e-12*math.Abs(p[i]) {
			t.Errorf("index %d: have %g, want %g", i, p2[i], p[i])
		}
	}
}

func TestEOSTemperature(t *testing.T) {
	e := NewEOS()
	// An ideal monatomic hydrogen gas: T = P μ m_H / (ρ k_B).
	const (
		rho   = 1.6733e-24 // 1 hydrogen atom per cm³
		wantT = 1e4
	)
	press := rho * KBoltzmann * wantT / (e.Mu * MHydrogen)
	if have := e.Temperature(rho, press); math.Abs(have-wantT) > 1e-8*wantT {
		t.Errorf("have %g K, want %g K", have, wantT)
	}
}

func TestEOSPressureFloor(t *testing.T) {
	e := NewEOS()
	// Conserved energy below the kinetic energy must not produce a
	// negative pressure.
	u := []float64{1, 10, 0, 0, 1, 0, 0} // ek = 50 > 1
	p := make([]float64, len(u))
	e.Primitives(u, p)
	if p[IPress] <= 0 {
		t.Errorf("pressure %g is not positive", p[IPress])
	}
}
