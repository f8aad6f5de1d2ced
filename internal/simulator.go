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

package internal

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hydro-python/hydropowerlib/hydropower"
	"github.com/hydro-python/hydropowerlib/internal/config"
	"github.com/hydro-python/hydropowerlib/internal/logger"
	"github.com/hydro-python/hydropowerlib/timeseries"
	"github.com/hydro-python/hydropowerlib/turbine"
)

// Simulator runs one scenario end to end: load the river data, resolve the
// plant, drive the modelchain and write the feed-in series.
type Simulator struct {
	cfg      *config.Config
	resolver hydropower.Resolver
}

func NewSimulator() *Simulator {
	return &Simulator{cfg: config.Get()}
}

func (s *Simulator) Run() error {
	if err := s.loadTables(); err != nil {
		return err
	}

	if s.cfg.RiverFile == "" {
		return errors.Wrap(hydropower.ErrMissingInput, "no river_file in the scenario")
	}
	river, err := hydropower.LoadRiverData(s.cfg.RiverFile)
	if err != nil {
		return err
	}

	var history *timeseries.Series
	if len(s.cfg.HistoryFiles) > 0 {
		files, err := expandHistoryFiles(s.cfg.HistoryFiles)
		if err != nil {
			return err
		}
		if history, err = hydropower.LoadHistory(files...); err != nil {
			return err
		}
	}

	plant, err := s.resolver.Resolve(*s.cfg.Plant, history)
	if err != nil {
		return err
	}
	logger.L().Infof(
		"Resolved plant `%v`: P_n=%.0f W, dV_n=%.2f m3/s, h_n=%.2f m, %v x %v",
		plant.ID, plant.NominalPower, plant.NominalFlow, plant.NominalHead,
		plant.TurbineCount, plant.TurbineType,
	)

	mc := hydropower.NewModelchain(plant)
	mc.RhoModel = s.cfg.RhoModel
	mc.GModel = s.cfg.GModel
	mc.Parameters = s.resolver.Parameters

	out, err := mc.Run(river)
	if err != nil {
		return err
	}

	if err := s.write(out); err != nil {
		return err
	}
	s.report(plant, out)
	return nil
}

// expandHistoryFiles resolves the scenario's history entries, each a literal
// path or a glob (the yearly record files of one gauge usually share a stem).
func expandHistoryFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "bad history pattern %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Wrapf(hydropower.ErrMissingInput, "history pattern %q matches no files", pattern)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// loadTables swaps the embedded turbine reference tables for the ones named
// in the scenario, when any.
func (s *Simulator) loadTables() error {
	if s.cfg.TurbineFile != "" {
		params, err := turbine.LoadParameterFile(s.cfg.TurbineFile)
		if err != nil {
			return err
		}
		s.resolver.Parameters = params
	}
	if s.cfg.DiagramFile != "" {
		diagrams, err := turbine.LoadDiagramFile(s.cfg.DiagramFile)
		if err != nil {
			return err
		}
		s.resolver.Diagrams = diagrams
	}
	return nil
}

func (s *Simulator) write(out *timeseries.Series) error {
	if s.cfg.OutputFile == "" {
		return timeseries.WriteCSV(os.Stdout, out)
	}
	if err := timeseries.WriteCSVFile(s.cfg.OutputFile, out); err != nil {
		return err
	}
	logger.L().Infof("Wrote %v rows to `%v`", out.Len(), s.cfg.OutputFile)
	return nil
}

func (s *Simulator) report(plant *hydropower.Plant, out *timeseries.Series) {
	if out.Len() == 0 {
		return
	}
	energy := out.Sum() * out.Interval().Hours() / 1000
	logger.L().Infof(
		"Plant `%v`: mean %.2f kW, peak %.2f kW, %.1f kWh over %v steps",
		plant.ID, out.Mean()/1000, out.Max()/1000, energy, out.Len(),
	)
}
