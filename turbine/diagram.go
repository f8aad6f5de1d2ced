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

package turbine

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hydro-python/hydropowerlib/internal/geom"
)

// DiagramTable holds one operating-range polygon per turbine type, in table
// column order. The shipped table follows the shape of the classic Kennfeld
// application chart (https://de.wikipedia.org/wiki/Wasserturbine), with flow
// in m3/s on the x axis and head in m on the y axis.
type DiagramTable struct {
	order []string
	polys map[string]geom.Polygon
}

// Types lists the diagram types in table column order. Classification walks
// the types in this order, so it doubles as the tie-break order when ranges
// overlap.
func (d *DiagramTable) Types() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Polygon returns the operating range of the named type.
func (d *DiagramTable) Polygon(name string) (geom.Polygon, bool) {
	p, ok := d.polys[name]
	return p, ok
}

// Classify situates the operating point (flow per turbine, nominal head) on
// the diagrams and returns the first type whose range contains it. When no
// range matches it returns Dummy and false.
func (d *DiagramTable) Classify(flow, head float64) (string, bool) {
	pt := geom.Point{X: flow, Y: head}
	for _, name := range d.order {
		if d.polys[name].Contains(pt) {
			return name, true
		}
	}
	return Dummy, false
}

// ParseDiagramTable reads a diagram table in the charac_diagrams.csv layout:
// an index column followed by one <Type>_dV,<Type>_h column pair per type.
// Polygons with fewer vertices than the longest one leave their trailing
// cells empty.
func ParseDiagramTable(r io.Reader) (*DiagramTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(ErrReferenceData, err.Error())
	}
	if len(records) < 2 {
		return nil, errors.Wrap(ErrReferenceData, "diagram table has no rows")
	}
	header := records[0]
	if len(header) < 3 || len(header)%2 == 0 {
		return nil, errors.Wrapf(ErrReferenceData, "diagram table header has %d columns, want an index column plus pairs", len(header))
	}
	d := &DiagramTable{polys: make(map[string]geom.Polygon)}
	for i := 1; i < len(header); i += 2 {
		name, okX := strings.CutSuffix(header[i], "_dV")
		nameY, okY := strings.CutSuffix(header[i+1], "_h")
		if !okX || !okY || name != nameY || name == "" {
			return nil, errors.Wrapf(ErrReferenceData, "diagram table columns %q,%q do not form a <type>_dV,<type>_h pair", header[i], header[i+1])
		}
		if _, dup := d.polys[name]; dup {
			return nil, errors.Wrapf(ErrReferenceData, "diagram table has duplicate type %q", name)
		}
		d.order = append(d.order, name)
		d.polys[name] = nil
	}
	for line, rec := range records[1:] {
		for i, name := range d.order {
			sx := strings.TrimSpace(rec[2*i+1])
			sy := strings.TrimSpace(rec[2*i+2])
			if sx == "" && sy == "" {
				continue
			}
			if sx == "" || sy == "" {
				return nil, errors.Wrapf(ErrReferenceData, "diagram table line %d: half-empty vertex for type %q", line+2, name)
			}
			x, err := strconv.ParseFloat(sx, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrReferenceData, "diagram table line %d, column %s_dV: %v", line+2, name, err)
			}
			y, err := strconv.ParseFloat(sy, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrReferenceData, "diagram table line %d, column %s_h: %v", line+2, name, err)
			}
			d.polys[name] = append(d.polys[name], geom.Point{X: x, Y: y})
		}
	}
	for _, name := range d.order {
		if len(d.polys[name]) < 3 {
			return nil, errors.Wrapf(ErrReferenceData, "diagram for type %q has %d vertices, want at least 3", name, len(d.polys[name]))
		}
	}
	return d, nil
}

// LoadDiagramFile reads a diagram table from a CSV file on disk.
func LoadDiagramFile(path string) (*DiagramTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrReferenceData, err.Error())
	}
	defer f.Close()
	return ParseDiagramTable(f)
}

var (
	defaultDiagramsOnce sync.Once
	defaultDiagrams     *DiagramTable
	defaultDiagramsErr  error
)

// DefaultDiagrams returns the embedded diagram table, parsed once and shared.
func DefaultDiagrams() (*DiagramTable, error) {
	defaultDiagramsOnce.Do(func() {
		defaultDiagrams, defaultDiagramsErr = ParseDiagramTable(bytes.NewReader(characDiagramsCSV))
	})
	return defaultDiagrams, defaultDiagramsErr
}
