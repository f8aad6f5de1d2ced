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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydro-python/hydropowerlib/timeseries"
)

var t0 = time.Date(2017, time.April, 12, 0, 0, 0, 0, time.UTC)

func hourlySeries(name string, start time.Time, values ...float64) *timeseries.Series {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return &timeseries.Series{Name: name, Times: times, Values: values}
}

// dailyHistory builds a daily flow record of the given length, one value per
// day starting at start.
func dailyHistory(start time.Time, days int, value func(i int) float64) *timeseries.Series {
	times := make([]time.Time, days)
	values := make([]float64, days)
	for i := 0; i < days; i++ {
		times[i] = start.AddDate(0, 0, i)
		values[i] = value(i)
	}
	return &timeseries.Series{Name: "dV_hist", Times: times, Values: values}
}

func constHistory(start time.Time, days int, v float64) *timeseries.Series {
	return dailyHistory(start, days, func(int) float64 { return v })
}

func TestResolveFeasibility(t *testing.T) {
	hist := constHistory(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), 3*365, 10)

	tests := []struct {
		name string
		spec PlantSpec
		hist *timeseries.Series
		ok   bool
	}{
		{name: "head and power", spec: PlantSpec{NominalHead: ptr(4.23), NominalPower: ptr(400000.0)}, ok: true},
		{name: "head and nominal flow", spec: PlantSpec{NominalHead: ptr(4.23), NominalFlow: ptr(12.0)}, ok: true},
		{name: "power and history", spec: PlantSpec{NominalPower: ptr(400000.0)}, hist: hist, ok: true},
		{name: "head alone", spec: PlantSpec{NominalHead: ptr(4.23)}, ok: false},
		{name: "power alone", spec: PlantSpec{NominalPower: ptr(400000.0)}, ok: false},
		{name: "flow and history without head or power", spec: PlantSpec{NominalFlow: ptr(12.0)}, hist: hist, ok: false},
		{name: "nothing", spec: PlantSpec{}, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.spec, tc.hist)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientData)
			}
		})
	}
}

func TestResolveFlowFromRating(t *testing.T) {
	p, err := Resolve(PlantSpec{
		ID:           "HydroRaon",
		NominalHead:  ptr(4.23),
		NominalPower: ptr(400000.0),
	}, nil)
	require.NoError(t, err)

	// 400000 / (4.23 * 9.81 * 1000 * 0.9 * 0.95)
	assert.InDelta(t, 11.2742, p.NominalFlow, 1e-3)
	assert.Equal(t, "Kaplan", p.TurbineType)
	assert.Empty(t, p.Diagnostics)
	assert.Equal(t, 1, p.TurbineCount)
	assert.Zero(t, p.ResidualFlow)
}

func TestRatingRoundTrip(t *testing.T) {
	power := powerFromRating(5, 8)
	assert.InDelta(t, 5, headFromRating(power, 8), 1e-12)
	assert.InDelta(t, 8, flowFromRating(power, 5), 1e-12)
}

func TestResolveFromHistory(t *testing.T) {
	hist := constHistory(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), 3*365, 10)
	p, err := Resolve(PlantSpec{ID: "hist-plant", NominalHead: ptr(5.0)}, hist)
	require.NoError(t, err)

	// Constant 10 m3/s: the 347-day flow is 10, mapped to 0.9+(10-2.5)*0.213.
	assert.InDelta(t, 2.4975, p.ResidualFlow, 1e-9)
	// The duration curve is flat at 10 minus the residual flow.
	assert.InDelta(t, 7.5025, p.NominalFlow, 1e-9)
	assert.InDelta(t, 314637.97, p.NominalPower, 0.1)
	assert.InDelta(t, 5.0, p.NominalHead, 1e-12)
	assert.Equal(t, "Kaplan", p.TurbineType)
}

func TestResolveResidualUsesLastTenYears(t *testing.T) {
	old := constHistory(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 2*365, 1000)
	recent := constHistory(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), 8*365, 1)
	hist, err := timeseries.Merge("dV_hist", old, recent)
	require.NoError(t, err)

	p, err := Resolve(PlantSpec{ID: "windowed", NominalHead: ptr(700.0)}, hist)
	require.NoError(t, err)

	// Only the recent constant 1 m3/s years count: 0.28+(1-0.5)*0.31.
	assert.InDelta(t, 0.435, p.ResidualFlow, 1e-9)

	// The duration curve spans the whole record. Its 20% mark falls on the
	// cliff between the 730 flood values (ending at 19.978%) and the
	// constant years, interpolating at t=0.8 between 999.565 and 0.565.
	assert.InDelta(t, 200.365, p.NominalFlow, 1e-6)
	assert.Equal(t, "dummy", p.TurbineType)
	require.Len(t, p.Diagnostics, 1)
	assert.Contains(t, p.Diagnostics[0].Message, "dummy")
}

func TestResolveIdempotent(t *testing.T) {
	spec := PlantSpec{
		ID:                  "HydroRaon",
		NominalPower:        ptr(400000.0),
		NominalFlow:         ptr(12.0),
		NominalHead:         ptr(4.23),
		ResidualFlow:        ptr(0.3),
		TurbineType:         "Kaplan",
		TurbineCount:        ptr(1),
		GeneratorEfficiency: ptr(0.95),
	}
	first, err := Resolve(spec, nil)
	require.NoError(t, err)

	assert.Equal(t, 400000.0, first.NominalPower)
	assert.Equal(t, 12.0, first.NominalFlow)
	assert.Equal(t, 4.23, first.NominalHead)
	assert.Equal(t, 0.3, first.ResidualFlow)

	second, err := Resolve(first.Spec(), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveUnknownTypeReclassifies(t *testing.T) {
	p, err := Resolve(PlantSpec{
		ID:          "turgo-plant",
		NominalHead: ptr(4.23),
		NominalFlow: ptr(12.0),
		TurbineType: "Turgo",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Kaplan", p.TurbineType)
	require.Len(t, p.Diagnostics, 1)
	assert.Contains(t, p.Diagnostics[0].Message, "Turgo")
}

func TestResolveDummyRequestedReclassifies(t *testing.T) {
	p, err := Resolve(PlantSpec{
		NominalHead: ptr(4.23),
		NominalFlow: ptr(12.0),
		TurbineType: "dummy",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kaplan", p.TurbineType)
	assert.Empty(t, p.Diagnostics)
}

func TestResolveGeneratesID(t *testing.T) {
	p, err := Resolve(PlantSpec{NominalHead: ptr(4.23), NominalFlow: ptr(12.0)}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	named, err := Resolve(PlantSpec{ID: "HydroRaon", NominalHead: ptr(4.23), NominalFlow: ptr(12.0)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "HydroRaon", named.ID)
}

func TestResolveRejectsBadInput(t *testing.T) {
	valid := PlantSpec{NominalHead: ptr(4.23), NominalFlow: ptr(12.0)}

	neg := valid
	negHist := hourlySeries("dV_hist", t0, 3, -1, 2)
	_, err := Resolve(neg, negHist)
	assert.ErrorIs(t, err, ErrInvalidSeries)

	badCurve := valid
	badCurve.EfficiencyCurve = Curve{{Load: 0.5, Eta: 0.8}, {Load: 0.5, Eta: 0.9}}
	_, err = Resolve(badCurve, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "increase strictly")

	zeroTurb := valid
	zeroTurb.TurbineCount = ptr(0)
	_, err = Resolve(zeroTurb, nil)
	assert.Error(t, err)
}

func TestResolveDerivedFlowNotPositive(t *testing.T) {
	dry := constHistory(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), 2*365, 0)
	_, err := Resolve(PlantSpec{ID: "dry", NominalHead: ptr(5.0)}, dry)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestResidualFromQ347(t *testing.T) {
	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{name: "below first breakpoint", q: 0.03, want: 0.05},
		{name: "second segment", q: 0.1, want: 0.082},
		{name: "fourth segment", q: 1, want: 0.435},
		{name: "fifth segment", q: 10, want: 2.4975},
		{name: "above last breakpoint", q: 100, want: 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, residualFromQ347(tc.q), 1e-9)
		})
	}
}

// The mapping is continuous at its breakpoints up to the rounding the
// guideline's published slopes carry.
func TestResidualFromQ347Continuity(t *testing.T) {
	for _, bp := range []float64{0.06, 0.16, 0.5, 2.5, 10, 60} {
		below := residualFromQ347(bp - 1e-9)
		above := residualFromQ347(bp + 1e-9)
		assert.InDelta(t, below, above, 5e-3, "breakpoint %v", bp)
	}
}

func TestLinearQuantile(t *testing.T) {
	ten := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.InDelta(t, 1.45, linearQuantile(ten, 0.05), 1e-12)
	assert.InDelta(t, 10, linearQuantile(ten, 1), 1e-12)
	assert.InDelta(t, 2.5, linearQuantile([]float64{4, 2, 1, 3}, 0.5), 1e-12)
	assert.InDelta(t, 7, linearQuantile([]float64{7}, 0.05), 1e-12)
}

func TestDayOfYearMeans(t *testing.T) {
	s := &timeseries.Series{
		Name: "dV_hist",
		Times: []time.Time{
			time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Values: []float64{10, 30, 20, 10},
	}
	assert.Equal(t, []float64{15, 20}, dayOfYearMeans(s))
}

func TestFlowDurationCurve(t *testing.T) {
	fdc := NewFlowDurationCurve([]float64{5, 1, 3, 2, 4}, 0)

	assert.Equal(t, []float64{5, 4, 3, 2, 1}, fdc.Flow)
	assert.InDelta(t, 5, fdc.At(0), 1e-12)
	assert.InDelta(t, 4.2, fdc.At(20), 1e-12)
	assert.InDelta(t, 3, fdc.At(50), 1e-12)
	assert.InDelta(t, 1, fdc.At(100), 1e-12)
	// Clamped outside the curve.
	assert.InDelta(t, 5, fdc.At(-5), 1e-12)
	assert.InDelta(t, 1, fdc.At(110), 1e-12)

	withResidual := NewFlowDurationCurve([]float64{5, 1, 3, 2, 4}, 0.5)
	assert.InDelta(t, 2.5, withResidual.At(50), 1e-12)
}
