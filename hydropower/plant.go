/*
 * Copyright (c) 2018. oemof developer group -- All Rights Reserved
 *
 * This file is part of the hydropowerlib project.
 *
 * hydropowerlib is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package hydropower models the power output of run-of-river hydropower
// plants. A partial plant description goes in as a PlantSpec, Resolve fills
// the missing parameters from the physics and from historical flow records,
// and a Modelchain turns river observations into an electrical power series.
package hydropower

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/hydro-python/hydropowerlib/timeseries"
)

// PlantSpec is the raw description of a plant as supplied by the user.
// Unknown values stay nil and are estimated during resolution. The yaml
// names follow the customary hydropower shorthand: dV for flow, h for head,
// P for power, W for downstream water level, the _n suffix for nominal.
type PlantSpec struct {
	ID                  string   `yaml:"id"`
	NominalPower        *float64 `yaml:"p_n"`      // W
	NominalFlow         *float64 `yaml:"dv_n"`     // m3/s, total over all turbines
	NominalHead         *float64 `yaml:"h_n"`      // m
	NominalLevel        *float64 `yaml:"w_n"`      // m, needed by the efficiency curve model
	ResidualFlow        *float64 `yaml:"dv_res"`   // m3/s reserved for the river
	TurbineType         string   `yaml:"turb_type"`
	TurbineCount        *int     `yaml:"turb_num"`
	GeneratorEfficiency *float64 `yaml:"eta_gen"`
	Latitude            *float64 `yaml:"latitude"`
	EfficiencyCurve     Curve    `yaml:"eta_curve"`
}

// Plant is a fully resolved plant: every parameter the simulation needs is
// present. Plants are built by Resolve and treated as read only afterwards,
// except for PowerOutput which the Modelchain attaches as a result.
type Plant struct {
	ID           string
	NominalPower float64 // P_n, W
	NominalFlow  float64 // dV_n, m3/s, total over all turbines
	NominalHead  float64 // h_n, m
	ResidualFlow float64 // dV_res, m3/s
	TurbineType  string
	TurbineCount int

	// GeneratorEfficiency stays nil when not supplied; each output mode
	// applies its own default then.
	GeneratorEfficiency *float64
	// NominalLevel (W_n) and Latitude are only needed by some models and
	// stay nil when unknown.
	NominalLevel *float64
	Latitude     *float64
	// EfficiencyCurve, when present, selects the measured curve model over
	// the turbine type parameters.
	EfficiencyCurve Curve

	// Diagnostics collects the non-fatal findings of resolution, such as a
	// turbine type that could not be determined.
	Diagnostics []Diagnostic

	// PowerOutput is the result of the last Modelchain run, in W.
	PowerOutput *timeseries.Series
}

// Spec converts the resolved plant back into a fully populated spec. Feeding
// the result to Resolve again reproduces the same plant, which makes
// resolution idempotent once every parameter is known.
func (p *Plant) Spec() PlantSpec {
	spec := PlantSpec{
		ID:              p.ID,
		NominalPower:    ptr(p.NominalPower),
		NominalFlow:     ptr(p.NominalFlow),
		NominalHead:     ptr(p.NominalHead),
		ResidualFlow:    ptr(p.ResidualFlow),
		TurbineType:     p.TurbineType,
		TurbineCount:    ptr(p.TurbineCount),
		EfficiencyCurve: p.EfficiencyCurve,
	}
	spec.GeneratorEfficiency = copyPtr(p.GeneratorEfficiency)
	spec.NominalLevel = copyPtr(p.NominalLevel)
	spec.Latitude = copyPtr(p.Latitude)
	return spec
}

func ptr[T any](v T) *T { return &v }

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Diagnostic is a non-fatal finding from plant resolution, kept on the plant
// so callers decide how to surface it.
type Diagnostic struct {
	Field   string
	Message string
}

func (d Diagnostic) String() string {
	return d.Field + ": " + d.Message
}

// CurvePoint is one sample of a measured partial-load efficiency curve.
type CurvePoint struct {
	Load float64 `yaml:"load"`
	Eta  float64 `yaml:"eta"`
}

// Curve is a measured turbine efficiency curve over load, sorted by load.
type Curve []CurvePoint

// Validate checks that the sample loads increase strictly.
func (c Curve) Validate() error {
	for i := 1; i < len(c); i++ {
		if c[i].Load <= c[i-1].Load {
			return errors.Errorf("eta_curve loads must increase strictly (load %v at point %d)", c[i].Load, i)
		}
	}
	return nil
}

// Eta interpolates the turbine efficiency at the given load. Outside the
// sampled domain the efficiency is zero: below the first sample the turbine
// is off, above the last the surplus water is spilled over the dam.
func (c Curve) Eta(load float64) float64 {
	if len(c) == 0 {
		return 0
	}
	if load < c[0].Load || load > c[len(c)-1].Load {
		return 0
	}
	i := sort.Search(len(c), func(i int) bool { return c[i].Load >= load })
	if c[i].Load == load {
		return c[i].Eta
	}
	prev, next := c[i-1], c[i]
	t := (load - prev.Load) / (next.Load - prev.Load)
	return prev.Eta + t*(next.Eta-prev.Eta)
}
