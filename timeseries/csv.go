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
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Accepted timestamp layouts. Gauge records come as plain dates, river
// observation files as date-times.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized timestamp %q", v)
}

// ReadCSV reads a table with a timestamp column and one series per requested
// value column. Requested columns missing from the header are skipped, so
// optional columns can be requested unconditionally; every present cell must
// parse.
func ReadCSV(r io.Reader, timeCol string, valueCols ...string) (map[string]*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	timeIdx := -1
	colIdx := make(map[string]int)
	for i, name := range header {
		if name == timeCol {
			timeIdx = i
			continue
		}
		for _, want := range valueCols {
			if name == want {
				colIdx[name] = i
			}
		}
	}
	if timeIdx < 0 {
		return nil, errors.Errorf("timestamp column %q not found in header %v", timeCol, header)
	}

	out := make(map[string]*Series, len(colIdx))
	for name := range colIdx {
		out[name] = &Series{Name: name}
	}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		t, err := parseTime(record[timeIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		for name, idx := range colIdx {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %q", line, name)
			}
			out[name].Times = append(out[name].Times, t)
			out[name].Values = append(out[name].Values, v)
		}
	}
	for name, s := range out {
		validated, err := New(name, s.Times, s.Values)
		if err != nil {
			return nil, err
		}
		out[name] = validated
	}
	return out, nil
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path, timeCol string, valueCols ...string) (map[string]*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open series file")
	}
	defer f.Close()
	series, err := ReadCSV(f, timeCol, valueCols...)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return series, nil
}

// WriteCSV writes the series as a two-column table, timestamps first.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	name := s.Name
	if name == "" {
		name = "value"
	}
	if err := cw.Write([]string{"date", name}); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, t := range s.Times {
		record := []string{
			t.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(s.Values[i], 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush")
}

// WriteCSVFile is WriteCSV over a file path.
func WriteCSVFile(path string, s *Series) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create series file")
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return errors.WithMessage(err, path)
	}
	return errors.Wrap(f.Close(), path)
}
