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

package main

import (
	"os"

	"github.com/hydro-python/hydropowerlib/internal"
	"github.com/hydro-python/hydropowerlib/internal/logger"
)

// Build version, overridden with flag during build.
var version = "devel"

func main() {
	os.Exit(run())
}

// os.Exit skips deferred calls, so the log sync sits here behind a plain
// return and main exits with the code afterwards.
func run() int {
	defer logger.Close()

	logger.L().Infof("Run-of-river feed-in simulator, version: %+v", version)
	s := internal.NewSimulator()
	if err := s.Run(); err != nil {
		logger.L().Errorf("Simulation failed: %v", err)
		return 1
	}
	return 0
}
