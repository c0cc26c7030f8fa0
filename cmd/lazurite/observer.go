// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import "github.com/sirupsen/logrus"

// logrusObserver forwards decompiler search diagnostics to a logrus logger,
// satisfying decompiler.Observer.
type logrusObserver struct {
	log *logrus.Logger
}

func (o logrusObserver) SlowSearch() {
	o.log.Debug("greedy search missed, falling back to brute-force search")
}

func (o logrusObserver) NotFound() {
	o.log.Debug("no boolean expression reached a perfect score for this line group")
}
