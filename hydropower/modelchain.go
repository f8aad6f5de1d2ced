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

	"github.com/hydro-python/hydropowerlib/internal/logger"
	"github.com/hydro-python/hydropowerlib/timeseries"
	"github.com/hydro-python/hydropowerlib/turbine"
)

// Model names accepted for the water density and gravity selection.
const (
	ModelDefault  = "default"
	ModelFromTemp = "from_temp"
	ModelFromLat  = "from_lat"
)

// Modelchain drives the power output model of one resolved plant over a
// river record. Zero values for RhoModel and GModel select the physical
// constants.
type Modelchain struct {
	Plant    *Plant
	RhoModel string // "default" or "from_temp"
	GModel   string // "default" or "from_lat"

	// Parameters overrides the embedded turbine parameter table when set.
	Parameters *turbine.ParameterTable

	// PowerOutput holds the result of the last Run, in W.
	PowerOutput *timeseries.Series
}

// NewModelchain wraps a resolved plant with the default density and gravity
// models.
func NewModelchain(p *Plant) *Modelchain {
	return &Modelchain{Plant: p, RhoModel: ModelDefault, GModel: ModelDefault}
}

// rho returns the water density per the configured model.
func (mc *Modelchain) rho(river *RiverData) (float64, error) {
	switch mc.RhoModel {
	case "", ModelDefault:
		return waterDensity, nil
	case ModelFromTemp:
		if river.Temperature == nil {
			return 0, errors.Wrapf(ErrMissingInput,
				"plant %s: rho_model %s needs a temp_water column in the river data", mc.Plant.ID, ModelFromTemp)
		}
		// TODO: derive the density from the temperature series. A fixed
		// stand-in value until a correlation is settled on.
		return 1005, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedModel,
			"rho_model %q, valid are %s and %s", mc.RhoModel, ModelDefault, ModelFromTemp)
	}
}

// g returns the gravitational acceleration per the configured model.
func (mc *Modelchain) g() (float64, error) {
	switch mc.GModel {
	case "", ModelDefault:
		return gravity, nil
	case ModelFromLat:
		if mc.Plant.Latitude == nil {
			return 0, errors.Wrapf(ErrMissingInput,
				"plant %s: g_model %s needs the plant latitude", mc.Plant.ID, ModelFromLat)
		}
		// TODO: derive g from the latitude. A fixed stand-in value until then.
		return 9.3, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedModel,
			"g_model %q, valid are %s and %s", mc.GModel, ModelDefault, ModelFromLat)
	}
}

// Run computes the power output over the river record, attaches it to the
// plant and returns it. The plant's measured efficiency curve takes
// precedence; without one the turbine type parameters drive the model.
// Running again recomputes from the same resolved parameters, so repeated
// runs over the same record return the same series.
func (mc *Modelchain) Run(river *RiverData) (*timeseries.Series, error) {
	if mc.Plant == nil {
		return nil, errors.Wrap(ErrMissingInput, "modelchain has no plant")
	}
	if err := river.Validate(); err != nil {
		return nil, err
	}
	g, err := mc.g()
	if err != nil {
		return nil, err
	}
	rho, err := mc.rho(river)
	if err != nil {
		return nil, err
	}

	var out *timeseries.Series
	if len(mc.Plant.EfficiencyCurve) > 0 {
		out, err = outputFromCurve(mc.Plant, river.Flow, river.Level, rho, g)
	} else {
		out, err = mc.runFromParameters(river.Flow)
	}
	if err != nil {
		return nil, err
	}
	mc.PowerOutput = out
	mc.Plant.PowerOutput = out
	logger.L().Debugf("plant %s: computed %d power output steps", mc.Plant.ID, out.Len())
	return out, nil
}

func (mc *Modelchain) runFromParameters(flow *timeseries.Series) (*timeseries.Series, error) {
	if mc.Plant.TurbineType == "" {
		return nil, errors.Wrapf(ErrMissingInput,
			"plant %s: specify either a turbine type or an efficiency curve", mc.Plant.ID)
	}
	table := mc.Parameters
	if table == nil {
		var err error
		table, err = turbine.DefaultParameters()
		if err != nil {
			return nil, err
		}
	}
	params, err := table.Lookup(mc.Plant.TurbineType)
	if err != nil {
		return nil, errors.WithMessagef(err, "plant %s", mc.Plant.ID)
	}
	return outputFromParameters(mc.Plant, flow, params), nil
}
