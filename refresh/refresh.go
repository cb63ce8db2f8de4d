// SPDX-License-Identifier: GPL-2.0-or-later

// Package refresh is the renderer front end. Per frame it marks the
// visible part of the world, culls and collects draw surfaces, renders
// mirror and portal views, sorts everything and records the commands
// a back end needs to draw the frame.
package refresh

import (
	"time"

	"github.com/pkg/errors"

	"q3front/bsp"
	"q3front/model"
	"q3front/shader"
)

const (
	MaxDrawSurfs      = 0x10000
	MaxLitSurfs       = MaxDrawSurfs
	MaxRefEntities    = (1 << entityBits) - 1
	RefEntityNumWorld = MaxRefEntities
	MaxDlights        = 32
	MaxPolys          = 600
	MaxPolyVerts      = 3000
	CommandBufferSize = 0x80000
)

// GLConfig is what the front end needs to know about the output surface.
type GLConfig struct {
	VidWidth      int
	VidHeight     int
	StereoEnabled bool
}

// Platform reports window state. It is optional.
type Platform interface {
	IsMinimized() bool
}

// BackEnd consumes a finished frame. The frame belongs to the back end
// until Execute returns.
type BackEnd interface {
	Execute(f *BackEndData)
}

type Config struct {
	GL       GLConfig
	BackEnd  BackEnd
	Platform Platform
	Shaders  shader.Lookup
	Models   model.Lookup
	// Fatal is called on unrecoverable errors. Defaults to DefaultFatal.
	Fatal FatalFunc

	MaxDrawSurfs      int
	MaxLitSurfs       int
	CommandBufferSize int
}

// Renderer holds all front end state. It must only be used from one
// goroutine.
type Renderer struct {
	registered bool
	gl         GLConfig
	backEnd    BackEnd
	platform   Platform
	shaders    shader.Lookup
	models     model.Lookup
	emitters   map[model.Kind]SurfaceEmitter
	fatal      FatalFunc

	world *bsp.World

	frameCount    int
	frameSceneNum int
	sceneCount    int
	viewCount     int
	visCount      int
	lightCount    int
	viewCluster   int

	viewParms ViewParms
	refdef    refdef
	// ort is the orientation of the entity currently processed
	ort              Orientation
	currentEntityNum int
	shiftedEntityNum uint32
	currentEntity    *RefEntity
	light            *DLight

	firstSceneEntity int
	firstSceneDlight int
	firstScenePoly   int
	numPolyVerts     int

	frames      [2]*BackEndData
	cur         int
	sortScratch []DrawSurf

	pc           Counters
	frontEndTime time.Duration
	backEndTime  time.Duration
}

func New(cfg Config) (*Renderer, error) {
	if cfg.Shaders == nil {
		return nil, errors.New("refresh.New: no shader lookup")
	}
	if cfg.Models == nil {
		return nil, errors.New("refresh.New: no model lookup")
	}
	if cfg.GL.VidWidth <= 0 || cfg.GL.VidHeight <= 0 {
		return nil, errors.Errorf("refresh.New: bad video size %dx%d", cfg.GL.VidWidth, cfg.GL.VidHeight)
	}
	if cfg.MaxDrawSurfs <= 0 {
		cfg.MaxDrawSurfs = MaxDrawSurfs
	}
	if cfg.MaxLitSurfs <= 0 {
		cfg.MaxLitSurfs = MaxLitSurfs
	}
	if cfg.CommandBufferSize <= 0 {
		cfg.CommandBufferSize = CommandBufferSize
	}
	if cfg.Fatal == nil {
		cfg.Fatal = DefaultFatal
	}
	tr := &Renderer{
		registered:  true,
		gl:          cfg.GL,
		backEnd:     cfg.BackEnd,
		platform:    cfg.Platform,
		shaders:     cfg.Shaders,
		models:      cfg.Models,
		emitters:    make(map[model.Kind]SurfaceEmitter),
		fatal:       cfg.Fatal,
		viewCluster: -1,
		sortScratch: make([]DrawSurf, cfg.MaxDrawSurfs),
	}
	for i := range tr.frames {
		tr.frames[i] = newBackEndData(cfg.MaxDrawSurfs, cfg.MaxLitSurfs, cfg.CommandBufferSize)
	}
	tr.initNextFrame()
	return tr, nil
}

// LoadWorld makes w the world all following scenes are rendered in.
func (tr *Renderer) LoadWorld(w *bsp.World) {
	tr.world = w
	tr.viewCluster = -1
}

func (tr *Renderer) World() *bsp.World {
	return tr.world
}

// SetEmitter registers the surface emitter for a model kind.
// Brush models are handled by the renderer itself.
func (tr *Renderer) SetEmitter(k model.Kind, e SurfaceEmitter) {
	tr.emitters[k] = e
}

// Shutdown stops the renderer from accepting further work.
func (tr *Renderer) Shutdown() {
	tr.registered = false
}

func (tr *Renderer) Shaders() shader.Lookup {
	return tr.shaders
}

// ViewParms returns the parameters of the view being rendered.
func (tr *Renderer) ViewParms() ViewParms {
	return tr.viewParms
}

// Orientation returns the orientation of the entity being processed.
func (tr *Renderer) Orientation() Orientation {
	return tr.ort
}

func (tr *Renderer) FrameCount() int {
	return tr.frameCount
}

func (tr *Renderer) ViewCount() int {
	return tr.viewCount
}

func (tr *Renderer) VisCount() int {
	return tr.visCount
}

// Counters returns the performance counters of the current frame.
func (tr *Renderer) Counters() Counters {
	return tr.pc
}

func (tr *Renderer) frame() *BackEndData {
	return tr.frames[tr.cur]
}

// Frame returns the frame being composed.
func (tr *Renderer) Frame() *BackEndData {
	return tr.frame()
}
