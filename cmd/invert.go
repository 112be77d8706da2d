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
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/geoinv/InputParameters"
	"github.com/notargets/geoinv/inversion"
	"github.com/notargets/geoinv/mesh"
	"github.com/notargets/geoinv/operators"
	"github.com/notargets/geoinv/utils"
)

// InvertCmd represents the invert command
var InvertCmd = &cobra.Command{
	Use:   "invert",
	Short: "Geostatistically regularized smoothing inversion of a synthetic field",
	Long: `
Observes a rough synthetic field in every cell of the mesh and recovers a
smooth model by minimizing |d - m|^2 + Lambda |C m|^2, where C is the
geostatistical constraints operator.

geoinv invert -F mesh.su2 -I params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mg := readModelFlags(cmd)
		ip := processInput(mg)
		RunInvert(mg, ip)
	},
}

func init() {
	rootCmd.AddCommand(InvertCmd)
	addModelFlags(InvertCmd)
}

// SyntheticField is a smooth wave plus a cell to cell alternating disturbance.
func SyntheticField(m *mesh.Mesh) (d []float64) {
	var (
		C      = m.CellCenters()
		lx, ly float64
	)
	for _, c := range C {
		lx, ly = math.Max(lx, c.X), math.Max(ly, c.Y)
	}
	d = make([]float64, len(C))
	for k, c := range C {
		d[k] = math.Sin(2*math.Pi*c.X/(lx+1)) * math.Cos(math.Pi*c.Y/(ly+1))
		if k%2 == 0 {
			d[k] += 0.1
		} else {
			d[k] -= 0.1
		}
	}
	return
}

func RunInvert(mg *ModelGeostat, ip *InputParameters.GeostatParameters) {
	var (
		err    error
		res    inversion.Result
		misfit []float64
	)
	m, C := buildConstraints(mg, ip)
	d := SyntheticField(m)
	G := operators.NewIdentity(m.CellCount())
	res, err = inversion.Invert(G, C, d, ip.Lambda, ip.SolverSettings(mg.Verbose))
	if err != nil && !errors.Is(err, inversion.ErrIterationLimit) {
		panic(err)
	}
	if err != nil {
		fmt.Printf("warning: %s\n", err.Error())
	}
	if utils.IsNan(res.X) {
		panic("NAN found in model")
	}
	misfit = make([]float64, len(d))
	floats.SubTo(misfit, d, res.X)
	fmt.Printf("%d cells, Lambda = %g\n", m.CellCount(), ip.Lambda)
	fmt.Printf("CGLS: %d iterations, %d products, |A^T r| = %10.4e in %v\n",
		res.Stats.Iterations, res.Stats.MatVec, res.Stats.NormalNorm, res.Stats.Runtime)
	fmt.Printf("Model: min = %8.4f, max = %8.4f, rms misfit = %8.4f\n",
		floats.Min(res.X), floats.Max(res.X), floats.Norm(misfit, 2)/math.Sqrt(float64(len(misfit))))
}
