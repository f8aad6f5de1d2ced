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

package timeseries

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const riverCSV = `date,Q,W
2017-04-12 00:00:00,11.5,1.2
2017-04-12 01:00:00,12.0,1.25
2017-04-12 02:00:00,12.5,1.3
`

func TestReadCSV(t *testing.T) {
	series, err := ReadCSV(strings.NewReader(riverCSV), "date", "Q", "W", "temp_water")
	require.NoError(t, err)

	// temp_water is not in the header and is simply absent.
	require.Len(t, series, 2)
	q := series["Q"]
	require.NotNil(t, q)
	assert.Equal(t, []float64{11.5, 12.0, 12.5}, q.Values)
	assert.Equal(t, time.Date(2017, 4, 12, 0, 0, 0, 0, time.UTC), q.Times[0])
	assert.Equal(t, time.Hour, q.Interval())

	w := series["W"]
	require.NotNil(t, w)
	assert.True(t, q.Aligned(w))
}

func TestReadCSVDailyDates(t *testing.T) {
	const daily = "date,dV\n2007-01-01,3.1\n2007-01-02,2.9\n"
	series, err := ReadCSV(strings.NewReader(daily), "date", "dV")
	require.NoError(t, err)
	dv := series["dV"]
	require.NotNil(t, dv)
	assert.Equal(t, 24*time.Hour, dv.Interval())
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing time column", "time,Q\n2017-04-12,1\n"},
		{"bad timestamp", "date,Q\nyesterday,1\n"},
		{"bad value", "date,Q\n2017-04-12,not-a-number\n"},
		{"unsorted rows", "date,Q\n2017-04-13,1\n2017-04-12,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.csv), "date", "Q")
			assert.Error(t, err)
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	out := hourly(t0, 425752.038, 0, 98406.5)
	out.Name = "feedin_hydropower_plant"

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, out))
	assert.True(t, strings.HasPrefix(buf.String(), "date,feedin_hydropower_plant\n"))

	back, err := ReadCSV(strings.NewReader(buf.String()), "date", "feedin_hydropower_plant")
	require.NoError(t, err)
	got := back["feedin_hydropower_plant"]
	require.NotNil(t, got)
	assert.Equal(t, out.Values, got.Values)
	assert.True(t, out.Aligned(got))
}
