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
	"github.com/hydro-python/hydropowerlib/turbine"
)

// Sentinels for the failure modes of resolution and simulation. Wrapped
// errors carry the plant and field context; match with errors.Is.
var (
	// ErrInsufficientData means the plant description cannot be completed:
	// fewer than two of nominal flow, head and power are available, counting
	// a flow history as a stand-in for nominal flow.
	ErrInsufficientData = errors.New("insufficient data to resolve plant")

	// ErrMissingInput means the selected model needs a series column or plant
	// field that was not supplied.
	ErrMissingInput = errors.New("missing input")

	// ErrUnsupportedModel means an unrecognized rho_model or g_model name.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrUnknownTurbineType means the requested type has no row in the
	// turbine parameter table.
	ErrUnknownTurbineType = turbine.ErrUnknownType

	// ErrReferenceData means a reference table is missing or malformed.
	ErrReferenceData = turbine.ErrReferenceData

	// ErrInvalidSeries means an input series breaks a structural invariant
	// (non-monotonic timestamps, negative or NaN flow, misaligned columns).
	ErrInvalidSeries = timeseries.ErrInvalid
)
