// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"log/slog"

	"q3front/conlog"
	"q3front/cvars"
	"q3front/glh"
)

// Counters are the per frame performance counters, reported with r_speeds.
type Counters struct {
	Views          int
	PortalViews    int
	PortalsRefused int
	Leafs          int

	SphereCullPatchIn   int
	SphereCullPatchClip int
	SphereCullPatchOut  int
	BoxCullPatchIn      int
	BoxCullPatchClip    int
	BoxCullPatchOut     int

	DlightSurfaces       int
	DlightSurfacesCulled int
	Dlights              int
	DlightsCulled        int
	LitSurfs             int
	LitCulls             int
	LitLeafs             int

	DrawSurfsDropped int
	LitSurfsDropped  int
	EntitiesDropped  int
	DlightsDropped   int
	PolysDropped     int
	CommandsDropped  int
}

// performanceCounters prints the counters selected by r_speeds and
// clears them.
func (tr *Renderer) performanceCounters() {
	pc := &tr.pc
	f := tr.frame()
	switch cvars.RSpeeds.Int() {
	case 0:
	case 1:
		conlog.Printf("%d views %d portal views %d leafs %d/%d draw surfs %d lit surfs",
			pc.Views, pc.PortalViews, pc.Leafs, f.DrawSurfs.Len(), f.DrawSurfs.Cap(), len(f.LitSurfs))
	case 2:
		conlog.Printf("(patch) %d sin %d sclip %d sout %d bin %d bclip %d bout",
			pc.SphereCullPatchIn, pc.SphereCullPatchClip, pc.SphereCullPatchOut,
			pc.BoxCullPatchIn, pc.BoxCullPatchClip, pc.BoxCullPatchOut)
	case 3:
		conlog.Printf("viewcluster: %d", tr.viewCluster)
	case 4:
		if lightListMode() {
			conlog.Printf("dlights:%d culled:%d lit surfs:%d lit culls:%d lit leafs:%d",
				pc.Dlights, pc.DlightsCulled, pc.LitSurfs, pc.LitCulls, pc.LitLeafs)
		} else {
			conlog.Printf("dlight srf:%d  culled:%d", pc.DlightSurfaces, pc.DlightSurfacesCulled)
		}
	case 5:
		conlog.Printf("zFar: %.0f", tr.viewParms.ZFar)
		conlog.DPrintf("%s", glh.Print(tr.viewParms.ProjectionMatrix))
	case 6:
		conlog.Printf("dropped draw surfs:%d lit surfs:%d entities:%d dlights:%d polys:%d commands:%d",
			pc.DrawSurfsDropped, pc.LitSurfsDropped, pc.EntitiesDropped,
			pc.DlightsDropped, pc.PolysDropped, pc.CommandsDropped)
	}
	if cvars.RSpeeds.Int() != 0 && conlog.Enabled(slog.LevelDebug) {
		conlog.Logger().Debug("front end",
			slog.Int("frame", tr.frameCount),
			slog.Int("views", pc.Views),
			slog.Int("portalViews", pc.PortalViews),
			slog.Int("leafs", pc.Leafs),
			slog.Int("drawSurfs", f.DrawSurfs.Len()),
			slog.Int("litSurfs", len(f.LitSurfs)),
			slog.Int("dlights", len(f.Dlights)),
			slog.Int("dropped", pc.DrawSurfsDropped+pc.LitSurfsDropped+pc.EntitiesDropped+
				pc.DlightsDropped+pc.PolysDropped+pc.CommandsDropped),
		)
	}
	tr.pc = Counters{}
}
