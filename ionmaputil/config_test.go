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

package ionmaputil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stellarmodel/ionmap"
)

func TestNetworkRegistry(t *testing.T) {
	if _, err := network("hydrogen"); err != nil {
		t.Error(err)
	}
	_, err := network("unobtainium")
	if err == nil {
		t.Fatal("expected an error for an unknown network")
	}
	if !strings.Contains(err.Error(), "hydrogen") {
		t.Errorf("error %q does not name the valid options", err)
	}
}

func TestNewDomainDefaults(t *testing.T) {
	d, err := NewDomain(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if d.Nx != 32 || d.Ny != 32 || d.Nz != 32 {
		t.Errorf("grid dimensions %d×%d×%d, want 32×32×32", d.Nx, d.Ny, d.Nz)
	}
	if d.Net == nil || d.Rad == nil || d.Log == nil {
		t.Fatal("domain services not populated")
	}

	// The reference point defaults to the grid center.
	if want := float64(d.Nx) * d.Dx / 2; d.Ref[0] != want {
		t.Errorf("Ref[0] = %g, want %g", d.Ref[0], want)
	}

	if err := d.Init(); err != nil {
		t.Fatal(err)
	}

	// The initial condition is consistent: conserved and primitive state
	// agree, and the species sum to the hydrogen-nucleus total.
	c := d.Cell(0, 0, 0)
	if c.U[ionmap.IRho] != c.Primit[ionmap.IRho] {
		t.Error("conserved and primitive densities disagree")
	}
	nH := c.Primit[ionmap.IRho] / ionmap.MHydrogen
	y := c.Primit[ionmap.SpeciesOffset:]
	if sum := y[0] + y[1]; sum < 0.999*nH || sum > 1.001*nH {
		t.Errorf("species sum %g, want the nucleus total %g", sum, nH)
	}
}

func TestNewDomainInvalidRadiation(t *testing.T) {
	Cfg.Set("Radiation.Type", "laser")
	defer Cfg.Set("Radiation.Type", "point")
	if _, err := NewDomain(Cfg); err == nil {
		t.Error("expected an error for an invalid radiation type")
	}
}

func TestWriteConfigTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConfigTemplate(&buf); err != nil {
		t.Fatal(err)
	}

	// The template must itself be valid TOML holding the defaults.
	var tree map[string]interface{}
	if err := toml.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("template is not valid TOML: %v", err)
	}
	grid, ok := tree["Grid"].(map[string]interface{})
	if !ok {
		t.Fatal("template has no [Grid] table")
	}
	if nx, ok := grid["Nx"].(int64); !ok || nx != 32 {
		t.Errorf("Grid.Nx = %v, want 32", grid["Nx"])
	}
	if _, ok := tree["config"]; ok {
		t.Error("the config-file path option does not belong in the template")
	}
}
