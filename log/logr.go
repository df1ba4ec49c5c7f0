// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package log

import "github.com/go-logr/logr"

type logrOutputter struct {
	sink logr.Logger
}

// LogrOutputter returns an Outputter that publishes messages to the
// provided logr.Logger. Leveling remains the job of the Logger that
// wraps the outputter; every message reaching the sink is logged
// with logr's Info.
func LogrOutputter(l logr.Logger) Outputter {
	return logrOutputter{l}
}

func (o logrOutputter) Output(calldepth int, s string) error {
	o.sink.WithCallDepth(calldepth).Info(s)
	return nil
}
