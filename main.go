// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/gopxl/mainthread/v2"

	"q3front/alias"
	"q3front/backend"
	"q3front/cbuf"
	"q3front/commandline"
	"q3front/conlog"
	"q3front/cvar"
	"q3front/cvars"
	"q3front/gametime"
	"q3front/refresh"
)

func main() {
	flag.Parse()
	mainthread.Run(run)
}

func run() {
	level := slog.LevelInfo
	if commandline.ConsoleDebug() {
		level = slog.LevelDebug
	}
	conlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if commandline.ConsoleDebug() {
		cvars.Developer.SetByString("1")
	}
	if n, ok := commandline.Speeds(); ok {
		cvars.RSpeeds.SetByString(strconv.Itoa(n))
	}
	for _, a := range commandline.Assignments() {
		if err := cvar.Set(a); err != nil {
			conlog.Warnf("%v", err)
			os.Exit(2)
		}
	}
	// remaining arguments are a console command like "r_novis" or "r_novis 1"
	if args := flag.Args(); len(args) != 0 && !cvar.Execute(args) {
		conlog.Warnf("Unknown command \"%s\"", args[0])
	}
	var console cbuf.CommandBuffer
	console.SetCommandExecutors([]cbuf.Efunc{
		alias.New().Execute(),
		func(_ *cbuf.CommandBuffer, a cbuf.Arguments) (bool, error) {
			return cvar.Execute(a.Strings()), nil
		},
	})
	console.AddText(commandline.Exec())

	d, err := newDemo()
	if err != nil {
		refresh.DefaultFatal(err)
		return
	}
	be := backend.NewRecorder(true, 1)
	tr, err := refresh.New(refresh.Config{
		GL: refresh.GLConfig{
			VidWidth:      commandline.Width(),
			VidHeight:     commandline.Height(),
			StereoEnabled: commandline.Stereo(),
		},
		BackEnd: be,
		Shaders: d.shaders,
		Models:  d.models,
	})
	if err != nil {
		refresh.DefaultFatal(err)
		return
	}
	tr.LoadWorld(d.world)

	eyes := []refresh.StereoFrame{refresh.StereoCenter}
	if commandline.Stereo() {
		eyes = []refresh.StereoFrame{refresh.StereoLeft, refresh.StereoRight}
	}
	clock := gametime.New()
	for i := 0; i < commandline.Frames(); i++ {
		clock.Update(commandline.FrameTime())
		if err := console.Execute(); err != nil {
			conlog.Warnf("%v", err)
		}
		for _, eye := range eyes {
			d.renderFrame(tr, clock, eye)
			f, ok := be.Last()
			if !ok {
				continue
			}
			conlog.Printf("frame %d %v: %d views, %d batches, %d dlights, crc %04x", f.FrameCount, eye, len(f.Views), f.Batches(), f.Dlights, f.Checksum)
			for j, v := range f.Views {
				conlog.DPrintf("  view %d: portal %v surfaces %d+%d batches %d zfar %.0f", j, v.PortalView, v.First, v.Count, v.Batches, v.ZFar)
			}
		}
	}
	if n := be.Errors(); n != 0 {
		conlog.Warnf("%d frames failed to decode", n)
	}
	tr.Shutdown()
}
