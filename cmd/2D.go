/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/goibm/InputParameters"
	"github.com/notargets/goibm/model_problems/NavierStokes2D"
	"github.com/notargets/goibm/utils"
)

type Model2D struct {
	ICFile     string
	OutputDir  string
	RestartDir string
	Profile    string
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional incompressible flow on a staggered Cartesian grid",
	Long: `
Reads a YAML input file describing the grid, boundary conditions, time
integration and immersed bodies, then steps the solution, writing forces,
iteration counts and periodic snapshots into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m2d := &Model2D{}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		m2d.OutputDir, _ = cmd.Flags().GetString("outputDir")
		m2d.RestartDir, _ = cmd.Flags().GetString("restart")
		m2d.Profile, _ = cmd.Flags().GetString("profile")
		if m2d.OutputDir == "" {
			m2d.OutputDir = viper.GetString("outputDir")
		}
		var ip *InputParameters.NavierStokesParameters
		if ip, err = processInput(m2d); err != nil {
			return
		}
		switch m2d.Profile {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		case "":
		default:
			return fmt.Errorf("unknown profile \"%s\", use cpu or mem", m2d.Profile)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Run2D(ctx, ip, logger)
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.NavierStokesParameters, err error) {
	if len(m2d.ICFile) == 0 {
		exampleFile := `
########################################
Title: "Lid Driven Cavity"
Nu: 0.01
Dt: 0.01
NumSteps: 2000
Domain:
  XAxis: {Start: 0, Segments: [{End: 1, NumCells: 32}]}
  YAxis: {Start: 0, Segments: [{End: 1, NumCells: 32}]}
BoundaryConditions:
  YPlus:
    U: {Type: DIRICHLET, Value: 1}
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
	}
	var data []byte
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		return
	}
	ip = &InputParameters.NavierStokesParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", m2d.ICFile, err)
	}
	if m2d.OutputDir != "" {
		ip.OutputDir = m2d.OutputDir
	}
	if m2d.RestartDir != "" {
		ip.RestartDir = m2d.RestartDir
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Nu, Dt, NumSteps\n\t- Domain, BoundaryConditions, Bodies")
	TwoDCmd.Flags().StringP("outputDir", "o", "", "directory for forces, iteration counts and snapshots")
	TwoDCmd.Flags().String("restart", "", "snapshot directory to restart from")
	TwoDCmd.Flags().String("profile", "", "write a cpu or mem profile")
	_ = viper.BindPFlag("outputDir", TwoDCmd.Flags().Lookup("outputDir"))
}

// Run2D runs the solver to completion or until ctx is cancelled
func Run2D(ctx context.Context, ip *InputParameters.NavierStokesParameters, logger *zap.Logger) (err error) {
	var ns *NavierStokes2D.NavierStokes
	ip.SetDefaults()
	ip.Print()
	if ns, err = NavierStokes2D.NewNavierStokes(ip, logger); err != nil {
		return
	}
	fmt.Println(ns)
	policy := NavierStokes2D.RunPolicy{
		AbortOnBreakdown: ip.AbortOnBreakdown == nil || *ip.AbortOnBreakdown,
		MaxNonConverged:  ip.MaxNonConverged,
	}
	summary, runErr := ns.Run(ctx, policy)
	err = errors.Join(runErr, ns.Shutdown())
	fmt.Printf("%d steps in %v, iterations velocity %d poisson %d, %d sub-steps not converged, %d breakdowns\n",
		summary.Steps, summary.Elapsed, summary.VelocityIterations, summary.PoissonIterations,
		summary.NonConvergedSubSteps, summary.Breakdowns)
	fmt.Println(utils.GetMemUsage())
	return
}
