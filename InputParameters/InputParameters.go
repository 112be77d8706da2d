package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/geoinv/geostat"
	"github.com/notargets/geoinv/inversion"
	"github.com/notargets/geoinv/operators"
)

// Parameters obtained from the YAML input file
type GeostatParameters struct {
	Title         string    `json:"Title"`
	I             []float64 `json:"I"` // correlation length(s)
	Dip           float64   `json:"Dip"`
	Strike        float64   `json:"Strike"`
	Model         string    `json:"Model"` // exp, gauss or spherical
	Variance      float64   `json:"Variance"`
	WithRef       bool      `json:"WithRef"`
	Lambda        float64   `json:"Lambda"`
	MaxIterations int       `json:"MaxIterations"`
	Tolerance     float64   `json:"Tolerance"`
}

func (ip *GeostatParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *GeostatParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v\t\t= Correlation Lengths\n", ip.I)
	fmt.Printf("%8.3f\t\t= Dip\n", ip.Dip)
	fmt.Printf("%8.3f\t\t= Strike\n", ip.Strike)
	fmt.Printf("[%s]\t\t\t= Covariance Model\n", ip.Model)
	fmt.Printf("%8.5f\t\t= Variance\n", ip.Variance)
	fmt.Printf("[%v]\t\t\t= WithRef\n", ip.WithRef)
	fmt.Printf("%8.5f\t\t= Lambda\n", ip.Lambda)
	fmt.Printf("[%d]\t\t\t= Max Iterations\n", ip.MaxIterations)
	fmt.Printf("%8.2e\t\t= Tolerance\n", ip.Tolerance)
}

func (ip *GeostatParameters) GeostatOptions(verbose bool) (opt operators.GeostatOptions, err error) {
	var (
		model geostat.Model
	)
	if model, err = geostat.NewModel(ip.Model); err != nil {
		return
	}
	opt = operators.GeostatOptions{
		Params: geostat.Params{
			I:        ip.I,
			Dip:      ip.Dip,
			Strike:   ip.Strike,
			Model:    model,
			Variance: ip.Variance,
		},
		WithRef: ip.WithRef,
		Verbose: verbose,
	}
	return
}

func (ip *GeostatParameters) SolverSettings(verbose bool) inversion.Settings {
	return inversion.Settings{
		Tolerance:     ip.Tolerance,
		MaxIterations: ip.MaxIterations,
		Verbose:       verbose,
	}
}
