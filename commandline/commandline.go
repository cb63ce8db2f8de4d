// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline registers the flags of the demo driver.
package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	conDebug bool
	stereo   bool

	speeds = boolInt{false, 1}

	frames    int
	frameTime float64
	height    int
	width     int

	exec string
	sets assignments
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

// assignments collects repeated "name=value" flags.
type assignments []string

func (a *assignments) Set(s string) error {
	if name, _, ok := strings.Cut(s, "="); !ok || name == "" {
		return errors.Errorf("expected name=value, got %q", s)
	}
	*a = append(*a, s)
	return nil
}

func (a *assignments) String() string {
	if a == nil {
		return ""
	}
	return strings.Join(*a, " ")
}

func init() {
	flag.BoolVar(&conDebug, "condebug", false, "enable debug logging and set developer")
	flag.BoolVar(&stereo, "stereo", false, "render a left and a right eye frame")

	flag.Var(&speeds, "speeds", "print front end counters, optional r_speeds level")
	flag.Var(&sets, "set", "set a cvar, name=value, may be repeated")
	flag.StringVar(&exec, "exec", "", "console commands run before the frames, wait delays the rest by one frame")

	flag.IntVar(&frames, "frames", 8, "number of frames to render")
	flag.Float64Var(&frameTime, "frametime", 0.05, "seconds per frame, 0 follows the wall clock")
	flag.IntVar(&height, "height", 480, "window height")
	flag.IntVar(&width, "width", 640, "window width")
}

func ConsoleDebug() bool {
	return conDebug
}

func Stereo() bool {
	return stereo
}

// Speeds returns the r_speeds level asked for and whether -speeds was given.
func Speeds() (int, bool) {
	return speeds.num, speeds.set
}

func Frames() int {
	return frames
}

func FrameTime() float64 {
	return frameTime
}

func Height() int {
	return height
}

func Width() int {
	return width
}

func Exec() string {
	return exec
}

// Assignments returns the -set flags in command line order.
func Assignments() []string {
	return append([]string(nil), sets...)
}
