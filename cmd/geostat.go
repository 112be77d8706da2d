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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/geoinv/InputParameters"
	"github.com/notargets/geoinv/mesh"
	"github.com/notargets/geoinv/operators"
	"github.com/notargets/geoinv/utils"
)

type ModelGeostat struct {
	GridFile   string
	ParamsFile string
	NX, NY, NZ int
	ProcLimit  int
	Size       [3]float64
	Verbose    bool
}

// GeostatCmd represents the geostat command
var GeostatCmd = &cobra.Command{
	Use:   "geostat",
	Short: "Build the geostatistical constraints operator on a mesh and report its properties",
	Long: `
Computes the cell covariance matrix of a mesh, its inverse square root and the
spur correction, then prints the eigenvalue range and spur statistics.

geoinv geostat -F mesh.su2 -I params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mg := readModelFlags(cmd)
		ip := processInput(mg)
		RunGeostat(mg, ip)
	},
}

func init() {
	rootCmd.AddCommand(GeostatCmd)
	addModelFlags(GeostatCmd)
}

func addModelFlags(c *cobra.Command) {
	c.Flags().StringP("gridFile", "F", "", "Mesh file to read in SU2 (.su2) or Gmsh 2.2 (.msh) format")
	c.Flags().StringP("inputParametersFile", "I", "", "YAML file for geostatistical parameters like:\n\t- I (correlation lengths)\n\t- Dip, Strike")
	c.Flags().Int("nx", 10, "cells along x for a generated grid, used without a grid file")
	c.Flags().Int("ny", 10, "cells along y for a generated grid")
	c.Flags().Int("nz", 0, "cells along z for a generated grid, 0 for a 2D grid")
	c.Flags().Float64Slice("size", []float64{100, 50, 50}, "extent of the generated grid along x,y,z")
	c.Flags().IntP("procLimit", "p", 0, "maximum number of go routines for the covariance matrix, 0 = number of CPUs")
}

func readModelFlags(cmd *cobra.Command) (mg *ModelGeostat) {
	var (
		err  error
		size []float64
	)
	mg = &ModelGeostat{Verbose: viper.GetBool("verbose")}
	if mg.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
		panic(err)
	}
	if mg.ParamsFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
		panic(err)
	}
	mg.NX, _ = cmd.Flags().GetInt("nx")
	mg.NY, _ = cmd.Flags().GetInt("ny")
	mg.NZ, _ = cmd.Flags().GetInt("nz")
	mg.ProcLimit, _ = cmd.Flags().GetInt("procLimit")
	size, _ = cmd.Flags().GetFloat64Slice("size")
	copy(mg.Size[:], size)
	return
}

func processInput(mg *ModelGeostat) (ip *InputParameters.GeostatParameters) {
	var (
		err  error
		data []byte
	)
	if len(mg.ParamsFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Case"
I: [20, 5] # correlation lengths, one for isotropic
Dip: 10
Strike: 0
Model: exp # Can be "gauss" or "spherical"
WithRef: false
Lambda: 10
MaxIterations: 200
Tolerance: 1.e-8
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(mg.ParamsFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.GeostatParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if mg.Verbose {
		ip.Print()
	}
	return
}

func loadMesh(mg *ModelGeostat) (m *mesh.Mesh, err error) {
	if len(mg.GridFile) != 0 {
		if strings.EqualFold(filepath.Ext(mg.GridFile), ".msh") {
			return mesh.ReadGmsh(mg.GridFile, mg.Verbose)
		}
		return mesh.ReadSU2(mg.GridFile, mg.Verbose)
	}
	xs := mesh.Linspace(0, mg.Size[0], mg.NX+1)
	ys := mesh.Linspace(0, mg.Size[1], mg.NY+1)
	if mg.NZ > 0 {
		return mesh.NewGrid3D(xs, ys, mesh.Linspace(0, mg.Size[2], mg.NZ+1))
	}
	return mesh.NewGrid2D(xs, ys)
}

func buildConstraints(mg *ModelGeostat, ip *InputParameters.GeostatParameters) (m *mesh.Mesh, C *operators.GeostatisticConstraints) {
	var (
		err error
		opt operators.GeostatOptions
	)
	if m, err = loadMesh(mg); err != nil {
		panic(err)
	}
	if opt, err = ip.GeostatOptions(mg.Verbose); err != nil {
		panic(err)
	}
	opt.ProcLimit = mg.ProcLimit
	if mg.Verbose {
		fmt.Printf("Using %d go routines in parallel\n", utils.ParallelDegree(mg.ProcLimit, m.CellCount()))
	}
	if C, err = operators.NewGeostatisticConstraintsFromMesh(m, opt); err != nil {
		panic(err)
	}
	return
}

func RunGeostat(mg *ModelGeostat, ip *InputParameters.GeostatParameters) {
	m, C := buildConstraints(mg, ip)
	ew := C.CM05().Eigenvalues()
	spur := C.Spur()
	fmt.Printf("%d dimensional mesh, %d cells\n", m.Dim(), m.CellCount())
	fmt.Printf("Covariance eigenvalues: min = %10.4e, max = %10.4e, condition = %10.4e\n",
		ew[0], ew[len(ew)-1], ew[len(ew)-1]/ew[0])
	if ip.WithRef {
		fmt.Printf("Spur correction disabled (WithRef)\n")
	} else {
		fmt.Printf("Spur: min = %10.4e, max = %10.4e, mean = %10.4e\n",
			floats.Min(spur), floats.Max(spur), floats.Sum(spur)/float64(len(spur)))
	}
	if mg.Verbose {
		fmt.Println(utils.GetMemUsage())
	}
}
