// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command lazurite restores readable shader source and varying.def.sc files
// from compiled RenderDragon material containers, and drives a project's
// external shader compilers to rebuild them.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	root := newRootCommand(log)
	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
