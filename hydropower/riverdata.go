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
	"github.com/pkg/errors"

	"github.com/hydro-python/hydropowerlib/timeseries"
)

// RiverData bundles the observed series that drive a simulation run. Flow is
// required; level feeds the efficiency curve model and temperature the
// from_temp density model.
type RiverData struct {
	Flow        *timeseries.Series // Q, m3/s
	Level       *timeseries.Series // W, m
	Temperature *timeseries.Series // temp_water, K
}

// Validate checks the flow series and the alignment of the optional columns
// against it.
func (rd *RiverData) Validate() error {
	if rd == nil || rd.Flow.Len() == 0 {
		return errors.Wrap(ErrMissingInput, "river data has no flow series")
	}
	if err := rd.Flow.ValidateNonNegative(); err != nil {
		return err
	}
	if rd.Level != nil && !rd.Flow.Aligned(rd.Level) {
		return errors.Wrap(ErrInvalidSeries, "water level series is not aligned with the flow series")
	}
	if rd.Temperature != nil && !rd.Flow.Aligned(rd.Temperature) {
		return errors.Wrap(ErrInvalidSeries, "temperature series is not aligned with the flow series")
	}
	return nil
}

// LoadRiverData reads a simulation record from a CSV file with a date column
// plus the columns Q (flow, m3/s), W (water level, m) and temp_water (K),
// the latter two optional.
func LoadRiverData(path string) (*RiverData, error) {
	cols, err := timeseries.ReadCSVFile(path, "date", "Q", "W", "temp_water")
	if err != nil {
		return nil, err
	}
	rd := &RiverData{Flow: cols["Q"], Level: cols["W"], Temperature: cols["temp_water"]}
	if rd.Flow == nil {
		return nil, errors.Wrapf(ErrMissingInput, "%s has no Q column", path)
	}
	if err := rd.Validate(); err != nil {
		return nil, err
	}
	return rd, nil
}

// LoadHistory reads one or more flow record files and merges them into a
// single multi-year series. Each file needs a date column plus a dV column
// (Q is accepted as well); the merged series must not overlap in time.
func LoadHistory(paths ...string) (*timeseries.Series, error) {
	parts := make([]*timeseries.Series, 0, len(paths))
	for _, path := range paths {
		cols, err := timeseries.ReadCSVFile(path, "date", "dV", "Q")
		if err != nil {
			return nil, err
		}
		s := cols["dV"]
		if s == nil {
			s = cols["Q"]
		}
		if s == nil {
			return nil, errors.Wrapf(ErrMissingInput, "%s has neither a dV nor a Q column", path)
		}
		parts = append(parts, s)
	}
	merged, err := timeseries.Merge("dV_hist", parts...)
	if err != nil {
		return nil, err
	}
	if err := merged.ValidateNonNegative(); err != nil {
		return nil, err
	}
	return merged, nil
}
