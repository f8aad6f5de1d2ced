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

// Package timeseries holds the time-indexed value sequences the model
// consumes (river flow, water level, water temperature) and produces
// (electrical power). A Series is a plain pair of slices; the timestamps are
// expected to increase strictly at a fixed sampling interval, daily or hourly
// in the records seen in practice.
package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalid marks any series validation failure. Test with errors.Is.
var ErrInvalid = errors.New("invalid series")

type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// New builds a validated series. The slices are kept, not copied.
func New(name string, times []time.Time, values []float64) (*Series, error) {
	s := &Series{Name: name, Times: times, Values: values}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Validate checks the structural invariants: matching slice lengths and
// strictly increasing timestamps.
func (s *Series) Validate() error {
	if len(s.Times) != len(s.Values) {
		return errors.Wrapf(ErrInvalid, "%s: %d timestamps for %d values", s.Name, len(s.Times), len(s.Values))
	}
	for i := 1; i < len(s.Times); i++ {
		if !s.Times[i].After(s.Times[i-1]) {
			return errors.Wrapf(ErrInvalid, "%s: timestamps not strictly increasing at index %d (%v)", s.Name, i, s.Times[i])
		}
	}
	return nil
}

// ValidateNonNegative additionally rejects negative and NaN values. River
// flow and power output are non-negative by definition, and strconv parses a
// literal "NaN" gauge cell without error.
func (s *Series) ValidateNonNegative() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			return errors.Wrapf(ErrInvalid, "%s: NaN at %v", s.Name, s.Times[i])
		}
		if v < 0 {
			return errors.Wrapf(ErrInvalid, "%s: negative value %v at %v", s.Name, v, s.Times[i])
		}
	}
	return nil
}

// Aligned reports whether the other series carries exactly the same
// timestamp index. The power output engine requires flow and level to align
// one to one.
func (s *Series) Aligned(other *Series) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.Times {
		if !s.Times[i].Equal(other.Times[i]) {
			return false
		}
	}
	return true
}

// From returns the sub-series with timestamps at or after the cutoff. The
// backing slices are shared, not copied.
func (s *Series) From(cutoff time.Time) *Series {
	i := sort.Search(len(s.Times), func(i int) bool {
		return !s.Times[i].Before(cutoff)
	})
	return &Series{Name: s.Name, Times: s.Times[i:], Values: s.Values[i:]}
}

// Last returns the final timestamp, or the zero time for an empty series.
func (s *Series) Last() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Times[len(s.Times)-1]
}

// Interval returns the sampling interval, taken from the first step. Zero
// for series shorter than two points.
func (s *Series) Interval() time.Duration {
	if s.Len() < 2 {
		return 0
	}
	return s.Times[1].Sub(s.Times[0])
}

func (s *Series) Mean() float64 {
	if s.Len() == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

func (s *Series) Min() float64 {
	if s.Len() == 0 {
		return 0
	}
	return floats.Min(s.Values)
}

func (s *Series) Max() float64 {
	if s.Len() == 0 {
		return 0
	}
	return floats.Max(s.Values)
}

func (s *Series) Sum() float64 {
	return floats.Sum(s.Values)
}

// Merge concatenates several series (for example one historical record file
// per year) and sorts the result by time. The merged series must still pass
// Validate, so overlapping or duplicated timestamps surface as errors.
func Merge(name string, parts ...*Series) (*Series, error) {
	n := 0
	for _, p := range parts {
		n += p.Len()
	}
	merged := &Series{
		Name:   name,
		Times:  make([]time.Time, 0, n),
		Values: make([]float64, 0, n),
	}
	for _, p := range parts {
		merged.Times = append(merged.Times, p.Times...)
		merged.Values = append(merged.Values, p.Values...)
	}
	sort.Sort(byTime{merged})
	s, err := New(name, merged.Times, merged.Values)
	if err != nil {
		return nil, errors.WithMessage(err, "merge")
	}
	return s, nil
}

type byTime struct{ s *Series }

func (b byTime) Len() int           { return b.s.Len() }
func (b byTime) Less(i, j int) bool { return b.s.Times[i].Before(b.s.Times[j]) }
func (b byTime) Swap(i, j int) {
	b.s.Times[i], b.s.Times[j] = b.s.Times[j], b.s.Times[i]
	b.s.Values[i], b.s.Values[j] = b.s.Values[j], b.s.Values[i]
}
