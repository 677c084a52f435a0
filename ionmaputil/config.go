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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/stellarmodel/ionmap"
	"github.com/stellarmodel/ionmap/science/chem/hydrogen"
)

// networks lists the available reaction networks by configuration name.
var networks = map[string]ionmap.Network{
	"hydrogen": hydrogen.Network{},
}

// network returns the reaction network with the given name, or an error
// naming the valid options.
func network(name string) (ionmap.Network, error) {
	net, ok := networks[name]
	if !ok {
		names := make([]string, 0, len(networks))
		for n := range networks {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("ionmaputil: invalid network name %s; valid options are %s",
			name, strings.Join(names, ", "))
	}
	return net, nil
}

// radiation builds the radiation field selected by the configuration.
func radiation(cfg *viper.Viper) (ionmap.RadiationField, error) {
	switch typ := cfg.GetString("Radiation.Type"); typ {
	case "uniform":
		return ionmap.Uniform{
			PhiIon:  cast.ToFloat64(cfg.Get("Radiation.PhiIon")),
			PhiHeat: cast.ToFloat64(cfg.Get("Radiation.PhiHeat")),
		}, nil
	case "point":
		return ionmap.PointSource{
			S0:      cast.ToFloat64(cfg.Get("Radiation.S0")),
			EPhoton: cast.ToFloat64(cfg.Get("Radiation.EPhoton")),
			RMin:    cast.ToFloat64(cfg.Get("Radiation.RMin")),
		}, nil
	default:
		return nil, fmt.Errorf("ionmaputil: invalid radiation type %s; valid options are uniform and point", typ)
	}
}

// logger builds a logger writing to the configured log file, or to
// standard output if none is configured.
func logger(cfg *viper.Viper) (logrus.FieldLogger, error) {
	log := logrus.New()
	if path := cfg.GetString("LogFile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("ionmaputil: problem creating log file: %v", err)
		}
		log.SetOutput(f)
	}
	return log, nil
}

// NewDomain builds a single-rank Domain from the configuration, ready for
// Init. The reference point is placed at the grid center, cells start
// filled with a uniform neutral gas, and the run is limited to the
// configured number of timesteps.
func NewDomain(cfg *viper.Viper) (*ionmap.Domain, error) {
	net, err := network(cfg.GetString("Chemistry.Network"))
	if err != nil {
		return nil, err
	}
	rad, err := radiation(cfg)
	if err != nil {
		return nil, err
	}
	log, err := logger(cfg)
	if err != nil {
		return nil, err
	}

	d := &ionmap.Domain{
		Nx: cfg.GetInt("Grid.Nx"),
		Ny: cfg.GetInt("Grid.Ny"),
		Nz: cfg.GetInt("Grid.Nz"),
		Dx: cast.ToFloat64(cfg.Get("Grid.Dx")),
		Dy: cast.ToFloat64(cfg.Get("Grid.Dy")),
		Dz: cast.ToFloat64(cfg.Get("Grid.Dz")),

		GateRadius: cast.ToFloat64(cfg.Get("Chemistry.GateRadius")),
		Dt:         cast.ToFloat64(cfg.Get("Timestep.Dt")),
		TimeScale:  cast.ToFloat64(cfg.Get("Timestep.TimeScale")),

		Net: net,
		Rad: rad,
		Log: log,
	}
	d.Ref = [3]float64{
		float64(d.Nx) * d.Dx / 2,
		float64(d.Ny) * d.Dy / 2,
		float64(d.Nz) * d.Dz / 2,
	}

	rho := cast.ToFloat64(cfg.Get("InitialConditions.Density"))
	T := cast.ToFloat64(cfg.Get("InitialConditions.Temperature"))

	d.InitFuncs = []ionmap.DomainManipulator{
		ionmap.RegularGrid(),
		ionmap.InitialConditions(uniformGas(d, rho, T)),
	}
	d.RunFuncs = []ionmap.DomainManipulator{
		ionmap.UpdateChem(),
		ionmap.Log(),
		ionmap.StepLimit(cfg.GetInt("NumIterations")),
	}
	return d, nil
}

// uniformGas returns an initial condition of uniform density rho [g/cm³]
// and temperature T [K] at rest, with the species started from the
// network's consistent initial guess for the element totals.
func uniformGas(d *ionmap.Domain, rho, T float64) func(c *ionmap.Cell) {
	eos := ionmap.NewEOS()
	y0 := make([]float64, d.Net.NumElements())
	return func(c *ionmap.Cell) {
		c.Primit[ionmap.IRho] = rho
		c.Primit[ionmap.IPress] = rho * ionmap.KBoltzmann * T / (eos.Mu * ionmap.MHydrogen)

		y := c.Primit[ionmap.SpeciesOffset:]
		d.Net.Totals(rho, y0)
		d.Net.InitialGuess(y, y0)
		a, b := d.Net.PassivePair()
		c.Primit[ionmap.ITracer] = y[a] + y[b]
	}
}

// Run initializes and runs the simulation, saving the final cell state to
// checkpointFile if one is given.
func Run(d *ionmap.Domain, checkpointFile string) error {
	if checkpointFile != "" {
		d.CleanupFuncs = append(d.CleanupFuncs, saveTo(checkpointFile))
	}
	if err := d.Init(); err != nil {
		return err
	}
	if err := d.Run(); err != nil {
		return err
	}
	return d.Cleanup()
}

func saveTo(path string) ionmap.DomainManipulator {
	return func(d *ionmap.Domain) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("ionmaputil: problem creating checkpoint file: %v", err)
		}
		defer f.Close()
		return ionmap.Save(f)(d)
	}
}

// WriteConfigTemplate writes a TOML configuration file holding the
// default value of every option to w.
func WriteConfigTemplate(w io.Writer) error {
	tree := make(map[string]interface{})
	for _, option := range options {
		if option.name == "config" {
			continue
		}
		parts := strings.Split(option.name, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = option.defaultVal
	}
	if err := toml.NewEncoder(w).Encode(tree); err != nil {
		return fmt.Errorf("ionmaputil: problem encoding configuration template: %v", err)
	}
	return nil
}
