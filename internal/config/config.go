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

// Package config loads the simulation scenario for the hydrosim command from
// a YAML file and the command line.
package config

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pborman/getopt/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hydro-python/hydropowerlib/hydropower"
	"github.com/hydro-python/hydropowerlib/internal/logger"
)

const defaultConfigFile = "scenario.yaml"

// Config describes one simulation scenario: the plant under study, the river
// data driving it and the model variants to use. Everything the plant spec
// leaves nil gets estimated during resolution.
type Config struct {
	LogLevel zapcore.Level         `yaml:"log_level"`
	Plant    *hydropower.PlantSpec `yaml:"plant"`

	// RiverFile holds the flow measurements to simulate. HistoryFiles name
	// the long term record used to estimate missing plant parameters, as
	// literal paths or globs.
	RiverFile    string   `yaml:"river_file"`
	HistoryFiles []string `yaml:"history_files,omitempty"`

	RhoModel string `yaml:"rho_model"`
	GModel   string `yaml:"g_model"`

	// TurbineFile and DiagramFile override the bundled reference tables.
	TurbineFile string `yaml:"turbine_file,omitempty"`
	DiagramFile string `yaml:"diagram_file,omitempty"`

	// OutputFile receives the power series; empty means stdout.
	OutputFile string `yaml:"output_file,omitempty"`
}

func defConfig() *Config {
	return &Config{
		Plant:    &hydropower.PlantSpec{},
		RhoModel: hydropower.ModelDefault,
		GModel:   hydropower.ModelDefault,
	}
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.Plant == nil {
		cfg.Plant = &hydropower.PlantSpec{}
	}
	if cfg.RhoModel == "" {
		cfg.RhoModel = hydropower.ModelDefault
	}
	if cfg.GModel == "" {
		cfg.GModel = hydropower.ModelDefault
	}
}

func Get() *Config {
	cfg := defConfig()
	logLevel := getopt.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := getopt.StringLong("config", 'c', defaultConfigFile, "scenario file pathname")
	riverFile := getopt.StringLong("river", 'r', "", "river data CSV pathname, overrides the scenario file")
	outputFile := getopt.StringLong("output", 'o', "", "output CSV pathname, default stdout")

	getopt.Parse()

	if err := readFile(cfg, *configFile); err != nil {
		log.Panicf("GetConfig: %v", err)
	}

	logger.L().Infof("Using scenario file `%v`", *configFile)

	if *riverFile != "" {
		cfg.RiverFile = *riverFile
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}

	cfg.FillDefaults()

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	prettyPrint(cfg)

	return cfg
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}
