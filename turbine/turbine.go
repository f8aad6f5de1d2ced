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

// Package turbine ships the reference data that describes hydropower turbine
// families: per-type efficiency coefficients and the characteristic diagrams
// used to pick a type from an operating point. Both tables are embedded so a
// plant can be modelled without any files on disk, but callers may load their
// own tables to override the shipped ones.
package turbine

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Dummy is the pseudo type assigned when no characteristic diagram contains
// the operating point. It has no entry in the parameter table, so it cannot
// drive the parametric efficiency model.
const Dummy = "dummy"

var (
	// ErrUnknownType marks a turbine type with no row in the parameter table.
	ErrUnknownType = errors.New("unknown turbine type")
	// ErrReferenceData marks a missing or malformed reference table.
	ErrReferenceData = errors.New("turbine reference data unavailable")
)

//go:embed data/turbine_type.csv
var turbineTypeCSV []byte

//go:embed data/charac_diagrams.csv
var characDiagramsCSV []byte

// Parameters describes the partial-load efficiency curve of one turbine type:
//
//	eta(load) = (load - LoadMin) / (A1 + A2*(load - LoadMin) + A3*(load - LoadMin)^2)
//
// below LoadMin the turbine does not run, at full load it reaches EtaN.
type Parameters struct {
	Type    string
	LoadMin float64
	A1      float64
	A2      float64
	A3      float64
	EtaN    float64
}

// Efficiency evaluates the partial-load curve at the given load fraction.
// Loads under LoadMin yield zero, loads of one and above yield EtaN.
func (p Parameters) Efficiency(load float64) float64 {
	if load < p.LoadMin {
		return 0
	}
	if load >= 1 {
		return p.EtaN
	}
	x := load - p.LoadMin
	return x / (p.A1 + p.A2*x + p.A3*x*x)
}

// ParameterTable maps turbine type names to their efficiency parameters.
type ParameterTable struct {
	order  []string
	byType map[string]Parameters
}

// Types lists the known turbine types in table order.
func (t *ParameterTable) Types() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Lookup returns the parameters for the named type. The name is matched
// exactly; unknown names, including Dummy, return ErrUnknownType.
func (t *ParameterTable) Lookup(name string) (Parameters, error) {
	p, ok := t.byType[name]
	if !ok {
		return Parameters{}, errors.Wrapf(ErrUnknownType, "%q not in parameter table (known: %s)",
			name, strings.Join(t.order, ", "))
	}
	return p, nil
}

// ParseParameterTable reads a parameter table in the turbine_type.csv layout:
// a header of type,load_min,a1,a2,a3,eta_n followed by one row per type.
func ParseParameterTable(r io.Reader) (*ParameterTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrReferenceData, err.Error())
	}
	if len(records) < 2 {
		return nil, errors.Wrap(ErrReferenceData, "parameter table has no rows")
	}
	header := records[0]
	want := []string{"type", "load_min", "a1", "a2", "a3", "eta_n"}
	if len(header) != len(want) {
		return nil, errors.Wrapf(ErrReferenceData, "parameter table header has %d columns, want %d", len(header), len(want))
	}
	for i, name := range want {
		if header[i] != name {
			return nil, errors.Wrapf(ErrReferenceData, "parameter table column %d is %q, want %q", i, header[i], name)
		}
	}
	t := &ParameterTable{byType: make(map[string]Parameters)}
	for line, rec := range records[1:] {
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, errors.Wrapf(ErrReferenceData, "parameter table line %d: empty type name", line+2)
		}
		if _, dup := t.byType[name]; dup {
			return nil, errors.Wrapf(ErrReferenceData, "parameter table line %d: duplicate type %q", line+2, name)
		}
		vals := make([]float64, 5)
		for i := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrReferenceData, "parameter table line %d, column %s: %v", line+2, want[i+1], err)
			}
			vals[i] = v
		}
		t.order = append(t.order, name)
		t.byType[name] = Parameters{
			Type:    name,
			LoadMin: vals[0],
			A1:      vals[1],
			A2:      vals[2],
			A3:      vals[3],
			EtaN:    vals[4],
		}
	}
	return t, nil
}

// LoadParameterFile reads a parameter table from a CSV file on disk.
func LoadParameterFile(path string) (*ParameterTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrReferenceData, err.Error())
	}
	defer f.Close()
	return ParseParameterTable(f)
}

var (
	defaultParamsOnce sync.Once
	defaultParams     *ParameterTable
	defaultParamsErr  error
)

// DefaultParameters returns the embedded parameter table. The parse runs once
// and the table is shared, so callers must treat it as read only.
func DefaultParameters() (*ParameterTable, error) {
	defaultParamsOnce.Do(func() {
		defaultParams, defaultParamsErr = ParseParameterTable(bytes.NewReader(turbineTypeCSV))
	})
	return defaultParams, defaultParamsErr
}
