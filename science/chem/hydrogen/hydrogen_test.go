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

package hydrogen

import (
	"math"
	"testing"

	"github.com/stellarmodel/ionmap"
	"gonum.org/v1/gonum/mat"
)

func TestJacobian(t *testing.T) {
	var net Network
	y := []float64{0.3, 0.7, 0.3}
	y0 := []float64{1}
	k := make([]float64, net.NumReactions())
	net.Rates(1.5e4, 1e-9, 0, k)

	jac := mat.NewDense(net.Len(), net.Len(), nil)
	net.Jacobian(y, k, jac)

	// Compare against a central finite difference of Derivs.
	const h = 1e-7
	dydtP := make([]float64, net.Len())
	dydtM := make([]float64, net.Len())
	yp := make([]float64, net.Len())
	for j := 0; j < net.Len(); j++ {
		copy(yp, y)
		yp[j] = y[j] + h
		net.Derivs(yp, k, y0, dydtP)
		yp[j] = y[j] - h
		net.Derivs(yp, k, y0, dydtM)
		for i := 0; i < net.Len(); i++ {
			want := (dydtP[i] - dydtM[i]) / (2 * h)
			have := jac.At(i, j)
			if math.Abs(have-want) > 1e-6*(1+math.Abs(want)) {
				t.Errorf("jac[%d][%d]: have %g, want %g", i, j, have, want)
			}
		}
	}
}

// TestEquilibrium integrates the network with a long timestep and checks
// that the ionization fraction relaxes to the analytic photoionization
// equilibrium Γ(1-x) = α n_H x².
func TestEquilibrium(t *testing.T) {
	var net Network
	const (
		T      = 1e4  // [K]; collisional ionization is negligible here
		phiIon = 1e-8 // [1/s]
		rho    = ionmap.MHydrogen
		Δt     = 1e18 // [s], long enough to reach equilibrium in one step
	)

	s := ionmap.NewSolver(net)
	y0 := []float64{0}
	net.Totals(rho, y0)
	nH := y0[0]

	// Start nearly neutral.
	y := []float64{1e-6 * nH, (1 - 1e-6) * nH, 1e-6 * nH}

	converged, iters := s.Step(y, y0, T, Δt, phiIon, 0)
	if !converged {
		t.Fatalf("no convergence in %d iterations", iters)
	}

	k := make([]float64, net.NumReactions())
	net.Rates(T, phiIon, 0, k)
	α := k[rRec]
	wantX := (-phiIon + math.Sqrt(phiIon*phiIon+4*α*nH*phiIon)) / (2 * α * nH)
	haveX := y[iHII] / nH
	if math.Abs(haveX-wantX) > 1e-3*wantX {
		t.Errorf("ionization fraction: have %g, want %g", haveX, wantX)
	}

	if math.Abs(y[iHII]+y[iHI]-nH) > 1e-3*nH {
		t.Errorf("hydrogen not conserved: %g + %g != %g", y[iHII], y[iHI], nH)
	}
	if math.Abs(y[iE]-y[iHII]) > 1e-3*nH {
		t.Errorf("charge neutrality violated: nE=%g, nHII=%g", y[iE], y[iHII])
	}
}

func TestInitialGuess(t *testing.T) {
	var net Network
	y0 := []float64{2}

	// A drifted vector keeps its ionization fraction but is rescaled to
	// the nucleus total.
	y := []float64{0.25, 0.75, 0.1}
	net.InitialGuess(y, y0)
	if math.Abs(y[iHII]-0.5) > 1e-12 || math.Abs(y[iHI]-1.5) > 1e-12 {
		t.Errorf("rescaled guess: have (%g, %g), want (0.5, 1.5)", y[iHII], y[iHI])
	}
	if y[iE] != y[iHII] {
		t.Errorf("electrons not neutral: %g != %g", y[iE], y[iHII])
	}
	if net.ConservationViolated(y, y0) {
		t.Error("guess should satisfy the conservation laws")
	}
}

func TestConservationViolated(t *testing.T) {
	var net Network
	y0 := []float64{1}
	tests := []struct {
		y    []float64
		want bool
	}{
		{[]float64{0.3, 0.7, 0.3}, false},
		{[]float64{0.3, 0.9, 0.3}, true},  // too many nuclei
		{[]float64{0.3, 0.7, 0.05}, true}, // charged
		{[]float64{0.3, 0.7001, 0.3}, false},
	}
	for i, test := range tests {
		if have := net.ConservationViolated(test.y, y0); have != test.want {
			t.Errorf("case %d: have %v, want %v", i, have, test.want)
		}
	}
}

func TestValueUnits(t *testing.T) {
	var net Network
	c := &ionmap.Cell{Primit: make([]float64, ionmap.SpeciesOffset+net.Len())}
	c.Primit[ionmap.SpeciesOffset+iHII] = 3
	c.Primit[ionmap.SpeciesOffset+iHI] = 1

	for name, want := range map[string]float64{"HII": 3, "HI": 1, "e-": 0, "xHII": 0.75} {
		have, err := net.Value(c, name)
		if err != nil {
			t.Fatal(err)
		}
		if have != want {
			t.Errorf("%s: have %g, want %g", name, have, want)
		}
	}

	if _, err := net.Value(c, "xyz"); err == nil {
		t.Error("expected error for invalid variable name")
	}
	if _, err := net.Units("xyz"); err == nil {
		t.Error("expected error for invalid variable name")
	}
	if u, err := net.Units("HI"); err != nil || u != "1/cm³" {
		t.Errorf("HI units: have %s (%v), want 1/cm³", u, err)
	}
}
