// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"q3front/conlog"
	"q3front/cvar"
)

var (
	Developer         *cvar.Cvar
	RDlightMode       *cvar.Cvar
	RDrawEntities     *cvar.Cvar
	RDrawWorld        *cvar.Cvar
	RFacePlaneCull    *cvar.Cvar
	RFacePlaneEpsilon *cvar.Cvar
	RFastSky          *cvar.Cvar
	RLockPVS          *cvar.Cvar
	RNoCull           *cvar.Cvar
	RNoCurves         *cvar.Cvar
	RNoPortals        *cvar.Cvar
	RNoRefresh        *cvar.Cvar
	RNoVis            *cvar.Cvar
	RPortalOnly       *cvar.Cvar
	RPortalScissor    *cvar.Cvar
	RPortalTolerance  *cvar.Cvar
	RShowCluster      *cvar.Cvar
	RSkipBackEnd      *cvar.Cvar
	RSpeeds           *cvar.Cvar
	RStereoSeparation *cvar.Cvar
	RZNear            *cvar.Cvar
	RZProj            *cvar.Cvar
)

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(func(cv *cvar.Cvar) {
		conlog.SetDeveloper(cv.Bool())
	})

	RDlightMode = cvar.MustRegister("r_dlightMode", "1", cvar.ARCHIVE)
	RDrawEntities = cvar.MustRegister("r_drawentities", "1", cvar.CHEAT)
	RDrawWorld = cvar.MustRegister("r_drawworld", "1", cvar.CHEAT)
	RFacePlaneCull = cvar.MustRegister("r_facePlaneCull", "1", cvar.ARCHIVE)
	RFacePlaneEpsilon = cvar.MustRegister("r_facePlaneEpsilon", "8", cvar.CHEAT)
	RFastSky = cvar.MustRegister("r_fastsky", "0", cvar.ARCHIVE)
	RLockPVS = cvar.MustRegister("r_lockpvs", "0", cvar.CHEAT)
	RNoCull = cvar.MustRegister("r_nocull", "0", cvar.CHEAT)
	RNoCurves = cvar.MustRegister("r_nocurves", "0", cvar.CHEAT)
	RNoPortals = cvar.MustRegister("r_noportals", "0", cvar.CHEAT)
	RNoRefresh = cvar.MustRegister("r_norefresh", "0", cvar.CHEAT)
	RNoVis = cvar.MustRegister("r_novis", "0", cvar.CHEAT)
	RPortalOnly = cvar.MustRegister("r_portalOnly", "0", cvar.CHEAT)
	RPortalScissor = cvar.MustRegister("r_portalScissor", "0", cvar.ARCHIVE)
	RPortalTolerance = cvar.MustRegister("r_portalTolerance", "64", cvar.CHEAT)
	RShowCluster = cvar.MustRegister("r_showcluster", "0", cvar.CHEAT)
	RSkipBackEnd = cvar.MustRegister("r_skipBackEnd", "0", cvar.CHEAT)
	RSpeeds = cvar.MustRegister("r_speeds", "0", cvar.CHEAT)
	RStereoSeparation = cvar.MustRegister("r_stereoSeparation", "64", cvar.ARCHIVE)
	RZNear = cvar.MustRegister("r_znear", "4", cvar.CHEAT)
	RZProj = cvar.MustRegister("r_zproj", "64", cvar.ARCHIVE)
}
