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

package hydropower

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hydro-python/hydropowerlib/internal/logger"
	"github.com/hydro-python/hydropowerlib/timeseries"
	"github.com/hydro-python/hydropowerlib/turbine"
)

const (
	gravity      = 9.81 // m/s2
	waterDensity = 1000 // kg/m3

	// Design-point efficiencies assumed when back-solving the characteristic
	// equation. The generator is taken as 0.95 and at full load the turbine
	// efficiency is around 0.9 for every family.
	ratedGeneratorEta = 0.95
	ratedTurbineEta   = 0.9

	// The nominal flow of a plant sized for its river is the flow reached or
	// exceeded 20% of the time.
	nominalFlowPercent = 20
)

// Resolver fills the missing parameters of a plant spec. The zero value uses
// the embedded reference tables; set Diagrams or Parameters to override them.
type Resolver struct {
	Diagrams   *turbine.DiagramTable
	Parameters *turbine.ParameterTable
}

// Resolve completes the spec into a Plant, using the flow history (m3/s,
// multi-year, may be nil) for the estimates that need one. Estimation only
// runs for parameters the spec leaves empty. It fails with
// ErrInsufficientData when the known parameters cannot anchor the rest.
func (r Resolver) Resolve(spec PlantSpec, history *timeseries.Series) (*Plant, error) {
	if err := spec.EfficiencyCurve.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "plant %s", spec.ID)
	}
	count := 1
	if spec.TurbineCount != nil {
		count = *spec.TurbineCount
	}
	if count < 1 {
		return nil, errors.Errorf("plant %s: turb_num is %d, want at least 1", spec.ID, count)
	}
	if history != nil {
		if err := history.ValidateNonNegative(); err != nil {
			return nil, err
		}
		if history.Len() == 0 {
			history = nil
		}
	}
	if !canEstimate(spec, history) {
		return nil, errors.Wrapf(ErrInsufficientData,
			"plant %s: need h_n and p_n, or one of them plus dv_n or a flow history", spec.ID)
	}

	p := &Plant{
		ID:                  spec.ID,
		TurbineCount:        count,
		GeneratorEfficiency: copyPtr(spec.GeneratorEfficiency),
		NominalLevel:        copyPtr(spec.NominalLevel),
		Latitude:            copyPtr(spec.Latitude),
		EfficiencyCurve:     spec.EfficiencyCurve,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	// Residual flow comes first, the flow duration curve below needs it.
	switch {
	case spec.ResidualFlow != nil:
		p.ResidualFlow = *spec.ResidualFlow
	case history != nil:
		p.ResidualFlow = residualFlowFromHistory(history)
	}

	switch {
	case spec.NominalFlow != nil:
		p.NominalFlow = *spec.NominalFlow
	case spec.NominalHead != nil && spec.NominalPower != nil:
		p.NominalFlow = flowFromRating(*spec.NominalPower, *spec.NominalHead)
	default:
		fdc := NewFlowDurationCurve(history.Values, p.ResidualFlow)
		p.NominalFlow = fdc.At(nominalFlowPercent)
	}
	if !(p.NominalFlow > 0) {
		return nil, errors.Wrapf(ErrInsufficientData,
			"plant %s: derived nominal flow %.3f m3/s is not positive", p.ID, p.NominalFlow)
	}

	// Head and power: whichever of the two is missing follows from the other
	// and the nominal flow through the characteristic equation.
	switch {
	case spec.NominalHead != nil && spec.NominalPower != nil:
		p.NominalHead = *spec.NominalHead
		p.NominalPower = *spec.NominalPower
	case spec.NominalHead != nil:
		p.NominalHead = *spec.NominalHead
		p.NominalPower = powerFromRating(p.NominalHead, p.NominalFlow)
	default: // feasibility guarantees nominal power is known here
		p.NominalPower = *spec.NominalPower
		p.NominalHead = headFromRating(p.NominalPower, p.NominalFlow)
	}

	if err := r.resolveTurbineType(p, spec); err != nil {
		return nil, err
	}

	logger.L().Debugf("resolved plant %s: dV_n=%.3f m3/s, h_n=%.2f m, P_n=%.0f W, dV_res=%.3f m3/s, turb_type=%s",
		p.ID, p.NominalFlow, p.NominalHead, p.NominalPower, p.ResidualFlow, p.TurbineType)
	return p, nil
}

// Resolve completes the spec with the embedded reference tables.
func Resolve(spec PlantSpec, history *timeseries.Series) (*Plant, error) {
	return Resolver{}.Resolve(spec, history)
}

// canEstimate tests the feasibility predicate: two of nominal flow, head and
// power must be available, with a flow history standing in for nominal flow.
func canEstimate(spec PlantSpec, history *timeseries.Series) bool {
	head := spec.NominalHead != nil
	power := spec.NominalPower != nil
	flow := spec.NominalFlow != nil || history.Len() > 0
	return (head && power) || ((head || power) && flow)
}

func (r Resolver) parameters() (*turbine.ParameterTable, error) {
	if r.Parameters != nil {
		return r.Parameters, nil
	}
	return turbine.DefaultParameters()
}

func (r Resolver) diagrams() (*turbine.DiagramTable, error) {
	if r.Diagrams != nil {
		return r.Diagrams, nil
	}
	return turbine.DefaultDiagrams()
}

// resolveTurbineType keeps a supplied type when the parameter table knows it
// and otherwise classifies the operating point on the characteristic
// diagrams, falling back to the dummy type with a diagnostic.
func (r Resolver) resolveTurbineType(p *Plant, spec PlantSpec) error {
	if spec.TurbineType != "" && spec.TurbineType != turbine.Dummy {
		params, err := r.parameters()
		if err != nil {
			return err
		}
		if _, err := params.Lookup(spec.TurbineType); err == nil {
			p.TurbineType = spec.TurbineType
			return nil
		}
		d := Diagnostic{
			Field:   "turb_type",
			Message: fmt.Sprintf("%q has no parameter table entry, classifying from the characteristic diagrams", spec.TurbineType),
		}
		p.Diagnostics = append(p.Diagnostics, d)
		logger.L().Warnf("plant %s: %s", p.ID, d)
	}

	diagrams, err := r.diagrams()
	if err != nil {
		return err
	}
	typ, matched := diagrams.Classify(p.NominalFlow/float64(p.TurbineCount), p.NominalHead)
	p.TurbineType = typ
	if !matched {
		d := Diagnostic{
			Field:   "turb_type",
			Message: "no characteristic diagram contains the operating point, dummy type used",
		}
		p.Diagnostics = append(p.Diagnostics, d)
		logger.L().Warnf("plant %s: turbine type could not be determined, dummy type used", p.ID)
	}
	return nil
}

// residualFlowFromHistory estimates the flow reserved for the river from a
// multi-year record: average the last ten years into one annual profile,
// take the flow still available 347 days per year from its duration curve,
// then map it through the piecewise reserve table from Wahl, Dimensionierung
// und Abnahme einer Kleinturbine (Bundesamt für Konjunkturfragen, 1995).
func residualFlowFromHistory(history *timeseries.Series) float64 {
	recent := history.From(history.Last().AddDate(-10, 0, 0))
	profile := dayOfYearMeans(recent)
	q347 := linearQuantile(profile, 0.05)
	return residualFromQ347(q347)
}

// dayOfYearMeans averages the values that share a day of year, returning one
// mean per observed day in calendar order.
func dayOfYearMeans(s *timeseries.Series) []float64 {
	byDay := make(map[int][]float64)
	for i, t := range s.Times {
		d := t.YearDay()
		byDay[d] = append(byDay[d], s.Values[i])
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	means := make([]float64, len(days))
	for i, d := range days {
		means[i] = stat.Mean(byDay[d], nil)
	}
	return means
}

// linearQuantile computes the q quantile with the linear interpolation rule
// numpy and pandas default to (type 7). gonum's stat.Quantile offers the
// empirical and R-4 definitions only, so the few lines live here.
func linearQuantile(values []float64, q float64) float64 {
	vs := append([]float64(nil), values...)
	sort.Float64s(vs)
	if len(vs) == 1 {
		return vs[0]
	}
	h := q * float64(len(vs)-1)
	i := int(math.Floor(h))
	if i >= len(vs)-1 {
		return vs[len(vs)-1]
	}
	return vs[i] + (h-float64(i))*(vs[i+1]-vs[i])
}

// residualFromQ347 maps the 347-day flow to the reserved residual flow.
func residualFromQ347(q float64) float64 {
	switch {
	case q <= 0.06:
		return 0.05
	case q <= 0.16:
		return 0.05 + (q-0.06)*8/10
	case q <= 0.5:
		return 0.130 + (q-0.16)*4.4/10
	case q <= 2.5:
		return 0.28 + (q-0.5)*31/100
	case q <= 10:
		return 0.9 + (q-2.5)*21.3/100
	case q <= 60:
		return 2.5 + (q-10)*150/1000
	default:
		return 10
	}
}

// FlowDurationCurve holds flow values sorted descending, indexed by the
// percentage of time each value is reached or exceeded.
type FlowDurationCurve struct {
	Percent []float64 // ascending, 0 to 100
	Flow    []float64 // descending
}

// NewFlowDurationCurve builds the curve from observed flows after removing
// the reserved residual flow from every value.
func NewFlowDurationCurve(values []float64, residual float64) *FlowDurationCurve {
	flow := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(flow)))
	floats.AddConst(-residual, flow)
	percent := make([]float64, len(flow))
	if len(percent) > 1 {
		floats.Span(percent, 0, 100)
	}
	return &FlowDurationCurve{Percent: percent, Flow: flow}
}

// At interpolates the flow at the given exceedance percentage, clamping to
// the curve ends.
func (c *FlowDurationCurve) At(percent float64) float64 {
	n := len(c.Percent)
	if n == 0 {
		return 0
	}
	if percent <= c.Percent[0] {
		return c.Flow[0]
	}
	if percent >= c.Percent[n-1] {
		return c.Flow[n-1]
	}
	i := sort.SearchFloat64s(c.Percent, percent)
	if c.Percent[i] == percent {
		return c.Flow[i]
	}
	t := (percent - c.Percent[i-1]) / (c.Percent[i] - c.Percent[i-1])
	return c.Flow[i-1] + t*(c.Flow[i]-c.Flow[i-1])
}

// The characteristic equation P_n = h_n * dV_n * g * rho * eta_g_n * eta_t_n
// ties the nominal quantities together, solved below for each in turn.

func flowFromRating(power, head float64) float64 {
	return power / (head * gravity * waterDensity * ratedTurbineEta * ratedGeneratorEta)
}

func powerFromRating(head, flow float64) float64 {
	return head * flow * gravity * waterDensity * ratedGeneratorEta * ratedTurbineEta
}

func headFromRating(power, flow float64) float64 {
	return power / (flow * gravity * waterDensity * ratedGeneratorEta * ratedTurbineEta)
}
