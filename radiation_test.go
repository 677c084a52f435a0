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

func TestPointSourceDilution(t *testing.T) {
	p := PointSource{S0: 1e48, EPhoton: 4e-12, RMin: 1e15}

	c1 := &Cell{R: 1e17}
	c2 := &Cell{R: 2e17}
	phi1, heat1 := p.Rates(c1)
	phi2, _ := p.Rates(c2)

	// Doubling the distance quarters the flux.
	if math.Abs(phi1/phi2-4) > 1e-12 {
		t.Errorf("dilution ratio: have %g, want 4", phi1/phi2)
	}
	if want := phi1 * p.EPhoton; heat1 != want {
		t.Errorf("heating: have %g, want %g", heat1, want)
	}

	want := p.S0 * sigmaNu0 / (4 * math.Pi * 1e34)
	if math.Abs(phi1-want) > 1e-12*want {
		t.Errorf("rate at 1e17 cm: have %g, want %g", phi1, want)
	}

	// Inside RMin the field saturates instead of diverging.
	cIn := &Cell{R: 0}
	cMin := &Cell{R: p.RMin}
	phiIn, _ := p.Rates(cIn)
	phiMin, _ := p.Rates(cMin)
	if phiIn != phiMin {
		t.Errorf("rate at the origin %g != rate at RMin %g", phiIn, phiMin)
	}
}

func TestGridded(t *testing.T) {
	g := NewGridded(4, 3, 2)
	g.PhiIon.Set(7e-10, 1, 2, 3)
	g.PhiHeat.Set(2e-21, 1, 2, 3)

	c := &Cell{I: 3, J: 2, K: 1}
	phi, heat := g.Rates(c)
	if phi != 7e-10 || heat != 2e-21 {
		t.Errorf("have (%g, %g), want (7e-10, 2e-21)", phi, heat)
	}

	// Unset cells see no radiation.
	if phi, heat := g.Rates(&Cell{}); phi != 0 || heat != 0 {
		t.Errorf("empty cell: have (%g, %g), want (0, 0)", phi, heat)
	}
}

func TestUniform(t *testing.T) {
	u := Uniform{PhiIon: 1e-9, PhiHeat: 3e-21}
	for _, r := range []float64{0, 1e17, 1e19} {
		phi, heat := u.Rates(&Cell{R: r})
		if phi != u.PhiIon || heat != u.PhiHeat {
			t.Errorf("r=%g: have (%g, %g), want (%g, %g)", r, phi, heat, u.PhiIon, u.PhiHeat)
		}
	}
}
