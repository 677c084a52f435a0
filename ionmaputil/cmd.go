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

// Package ionmaputil provides the configuration layer and command-line
// interface for running IonMAP chemistry simulations standalone, without
// a host hydrodynamics solver.
package ionmaputil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stellarmodel/ionmap"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to IonMAP.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the simulation log file. If blank,
              the log is written to standard output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CheckpointFile",
			usage: `
              CheckpointFile is the path the final cell state is saved to
              in gob format. If blank, no checkpoint is written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumIterations",
			usage: `
              NumIterations is the number of timesteps to run.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Chemistry.Network",
			usage: `
              Chemistry.Network chooses the reaction network.
              Currently 'hydrogen' is the only valid option.`,
			defaultVal: "hydrogen",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Chemistry.GateRadius",
			usage: `
              Chemistry.GateRadius is the radius around the reference
              point within which chemistry is integrated [cm]. Species in
              cells outside it stay frozen.`,
			defaultVal: 3.086e18,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Nx",
			usage: `
              Grid.Nx is the number of interior grid cells in the x
              direction.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Ny",
			usage: `
              Grid.Ny is the number of interior grid cells in the y
              direction.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Nz",
			usage: `
              Grid.Nz is the number of interior grid cells in the z
              direction.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx is the grid cell length in the x direction [cm].`,
			defaultVal: 1.0e17,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy is the grid cell length in the y direction [cm].`,
			defaultVal: 1.0e17,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Dz",
			usage: `
              Grid.Dz is the grid cell length in the z direction [cm].`,
			defaultVal: 1.0e17,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Timestep.Dt",
			usage: `
              Timestep.Dt is the fixed timestep in code time units.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Timestep.TimeScale",
			usage: `
              Timestep.TimeScale converts code time units to seconds.`,
			defaultVal: 3.156e10,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.Type",
			usage: `
              Radiation.Type chooses the radiation field. Valid options
              are 'uniform' and 'point'.`,
			defaultVal: "point",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.PhiIon",
			usage: `
              Radiation.PhiIon is the photoionization rate of a uniform
              radiation field [1/s].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.PhiHeat",
			usage: `
              Radiation.PhiHeat is the photoheating rate of a uniform
              radiation field [erg/s].`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.S0",
			usage: `
              Radiation.S0 is the ionizing photon rate of a point source
              [photons/s].`,
			defaultVal: 1.0e48,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.EPhoton",
			usage: `
              Radiation.EPhoton is the mean energy deposited per
              photoionization by a point source [erg].`,
			defaultVal: 3.85e-12,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Radiation.RMin",
			usage: `
              Radiation.RMin softens the point-source field inside this
              radius [cm].`,
			defaultVal: 1.0e16,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InitialConditions.Density",
			usage: `
              InitialConditions.Density is the uniform initial gas mass
              density [g/cm³].`,
			defaultVal: 1.6733e-22,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "InitialConditions.Temperature",
			usage: `
              InitialConditions.Temperature is the uniform initial gas
              temperature [K].`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("IONMAP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(templateCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ionmap: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "ionmap",
	Short: "A chemistry module for stellar-environment hydrodynamics.",
	Long: `IonMAP advances a stiff chemical/ionic reaction network on a structured
3-D simulation grid. Use the subcommands specified below to access the model
functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'IONMAP_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of IonMAP.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("IonMAP v%s\n", ionmap.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a standalone chemistry simulation.",
	Long: `run advances the chemistry on a static gas distribution for the
configured number of timesteps. It is meant for testing networks and radiation
fields without a host hydrodynamics solver; in production the host calls the
library directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := NewDomain(Cfg)
		if err != nil {
			return err
		}
		return Run(d, Cfg.GetString("CheckpointFile"))
	},
	DisableAutoGenTag: true,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a default configuration file",
	Long: `template writes a configuration file with the default settings to
standard output, as a starting point for editing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return WriteConfigTemplate(os.Stdout)
	},
	DisableAutoGenTag: true,
}
