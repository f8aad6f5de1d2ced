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
	"math"

	"github.com/pkg/errors"

	"github.com/hydro-python/hydropowerlib/timeseries"
	"github.com/hydro-python/hydropowerlib/turbine"
)

// outputSeriesName is the feed-in name carried by every power output series.
const outputSeriesName = "feedin_hydropower_plant"

// nominalGeneratorEta gives the full-load generator efficiency for a plant
// of the given nominal power, from the sizing guideline's table. Small
// machines come with noticeably worse generators.
func nominalGeneratorEta(powerW float64) float64 {
	switch {
	case powerW < 1000:
		return 0.80
	case powerW < 5000:
		return (80 + (powerW-1000)/1000*5/4) / 100
	case powerW < 20000:
		return (85 + (powerW-5000)/1000*5/15) / 100
	case powerW < 100000:
		return (90 + (powerW-20000)/1000*5/80) / 100
	default:
		return 0.95
	}
}

// generatorEta scales the nominal generator efficiency down at partial load.
func generatorEta(load, nominal float64) float64 {
	switch {
	case load < 0.1:
		return 0.85 * nominal
	case load < 0.25:
		return (0.85 + (load-0.1)*0.667) * nominal
	case load < 0.5:
		return (0.95 + (load-0.25)*0.2) * nominal
	default:
		return nominal
	}
}

// outputFromCurve computes the output with the plant's measured efficiency
// curve (Quaschning, Regenerative Energiesysteme, 9. Auflage, p. 333):
//
//	P = eta_turbine * eta_gen * g * rho * min(Q, dV_n) * (h_n + W_n - W)
//
// The curve lookup sees the uncapped load while the flow term is capped at
// nominal: surplus water spills over the dam and only shifts the head term.
// Steps where the level rises above the available head clamp to zero.
func outputFromCurve(p *Plant, flow, level *timeseries.Series, rho, g float64) (*timeseries.Series, error) {
	if p.NominalLevel == nil {
		return nil, errors.Wrapf(ErrMissingInput, "plant %s: the efficiency curve model needs the nominal water level w_n", p.ID)
	}
	if level.Len() == 0 {
		return nil, errors.Wrapf(ErrMissingInput, "plant %s: the efficiency curve model needs a water level series", p.ID)
	}
	if !flow.Aligned(level) {
		return nil, errors.Wrapf(ErrInvalidSeries, "plant %s: water level series is not aligned with the flow series", p.ID)
	}
	etaGen := ratedGeneratorEta
	if p.GeneratorEfficiency != nil {
		etaGen = *p.GeneratorEfficiency
	}
	values := make([]float64, flow.Len())
	for i, q := range flow.Values {
		load := q / p.NominalFlow
		etaTurb := p.EfficiencyCurve.Eta(load)
		head := p.NominalHead + *p.NominalLevel - level.Values[i]
		values[i] = math.Max(0, etaTurb*etaGen*g*rho*math.Min(q, p.NominalFlow)*head)
	}
	return &timeseries.Series{Name: outputSeriesName, Times: flow.Times, Values: values}, nil
}

// outputFromParameters computes the output from the turbine family's curve
// parameters, with the load-dependent generator efficiency. This variant has
// no level term:
//
//	P = eta_turbine * eta_gen * 9.81 * 1000 * min(Q, dV_n) * h_n
func outputFromParameters(p *Plant, flow *timeseries.Series, params turbine.Parameters) *timeseries.Series {
	etaGenNominal := nominalGeneratorEta(p.NominalPower)
	if p.GeneratorEfficiency != nil {
		etaGenNominal = *p.GeneratorEfficiency
	}
	values := make([]float64, flow.Len())
	for i, q := range flow.Values {
		load := q / p.NominalFlow
		values[i] = params.Efficiency(load) * generatorEta(load, etaGenNominal) *
			gravity * waterDensity * math.Min(q, p.NominalFlow) * p.NominalHead
	}
	return &timeseries.Series{Name: outputSeriesName, Times: flow.Times, Values: values}
}
