// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/pkg/errors"

	"q3front/conlog"
)

// FatalFunc handles errors the renderer can not recover from.
// The renderer returns from the current call after reporting.
type FatalFunc func(err error)

// DefaultFatal logs err with its stack and terminates the process.
func DefaultFatal(err error) {
	debug.PrintStack()
	conlog.Logger().Error("renderer error", slog.String("err", fmt.Sprintf("%+v", err)))
	os.Exit(1)
}

func (tr *Renderer) fatalf(format string, args ...interface{}) {
	tr.fatal(errors.Errorf(format, args...))
}
