// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

var (
	logger    atomic.Pointer[slog.Logger]
	developer atomic.Bool
)

func init() {
	logger.Store(slog.Default())
}

// SetLogger replaces the logger used by all print functions.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func Logger() *slog.Logger {
	return logger.Load()
}

// SetDeveloper enables DPrintf output.
func SetDeveloper(b bool) {
	developer.Store(b)
}

func msg(format string, v []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}

func Printf(format string, v ...interface{}) {
	logger.Load().Info(msg(format, v))
}

func Warnf(format string, v ...interface{}) {
	logger.Load().Warn(msg(format, v))
}

// DPrintf only prints in developer mode.
func DPrintf(format string, v ...interface{}) {
	if !developer.Load() {
		return
	}
	logger.Load().Debug(msg(format, v))
}

// Enabled reports whether the logger would emit a record at level l.
func Enabled(l slog.Level) bool {
	return logger.Load().Enabled(context.Background(), l)
}
