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

// Package geom holds the small amount of planar geometry needed to locate an
// operating point inside a turbine characteristic diagram. The ray-casting
// rules follow http://bryceboe.com/2006/10/23/line-segment-intersection-algorithm/
// with a fixed convention for points that fall on polygon vertices.
package geom

import "math"

// epsilon for coordinate equality. The tie-break rules below depend on exact
// equality in the reference tables, so this only papers over float noise.
const epsilon = 1e-9

type Point struct {
	X float64
	Y float64
}

func eq(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func samePoint(a, b Point) bool {
	return eq(a.X, b.X) && eq(a.Y, b.Y)
}

// CounterClockwise reports whether the ordered points a, b, c make a
// counterclockwise turn.
func CounterClockwise(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// CrossesRay reports whether the horizontal ray starting at a and extending
// towards +x crosses the half-open segment [b,c).
//
// Degenerate cases, in priority order:
//   - b == c: a point, never crossed
//   - b.Y == c.Y: segment parallel to the ray, overlap does not count
//   - a.Y == b.Y and a.X <= b.X: counts; keeping the segment half-open at c
//     makes a ray through a shared polygon vertex count exactly once
//   - a.Y == c.Y: the excluded endpoint, never counts
func CrossesRay(a, b, c Point) bool {
	if samePoint(b, c) {
		return false
	}
	if eq(b.Y, c.Y) {
		return false
	}
	if eq(a.Y, b.Y) && a.X <= b.X {
		return true
	}
	if eq(a.Y, c.Y) {
		return false
	}
	d := Point{X: math.Max(b.X, c.X) + 1, Y: a.Y}
	return CounterClockwise(a, c, b) != CounterClockwise(d, c, b) &&
		CounterClockwise(a, d, c) != CounterClockwise(a, d, b)
}

// Polygon is an ordered list of vertices. The edge list wraps from the last
// vertex back to the first one.
type Polygon []Point

// Crossings counts how many polygon edges the +x ray from a crosses.
func (p Polygon) Crossings(a Point) int {
	n := 0
	for i := range p {
		b := p[i]
		c := p[(i+1)%len(p)]
		if CrossesRay(a, b, c) {
			n++
		}
	}
	return n
}

// Contains reports whether a lies inside the polygon, by the odd crossing
// count rule.
func (p Polygon) Contains(a Point) bool {
	if len(p) < 3 {
		return false
	}
	return p.Crossings(a)%2 != 0
}
