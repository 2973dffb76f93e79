// Copyright 2026 The Placenames Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/osm-nz/placenames/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
