package document

// Icon names a glyph from the renderer's icon set. The set is closed: only
// names in iconTable are accepted, so renderers can map every value.
type Icon string

const (
	IconNone Icon = "none"

	IconPlay          Icon = "play"
	IconCheck         Icon = "check"
	IconSettings      Icon = "settings"
	IconZap           Icon = "zap"
	IconCircle        Icon = "circle"
	IconSquare        Icon = "square"
	IconCircleDot     Icon = "circle-dot"
	IconTarget        Icon = "target"
	IconDiamond       Icon = "diamond"
	IconAlertTriangle Icon = "alert-triangle"
	IconHexagon       Icon = "hexagon"
	IconLayers        Icon = "layers"
	IconMoon          Icon = "moon"
	IconStar          Icon = "star"
	IconPill          Icon = "pill"
	IconHeart         Icon = "heart"
	IconArrowRight    Icon = "arrow-right"
	IconGrid2x2       Icon = "grid-2x2"
)

// IconGroup is a picker section.
type IconGroup struct {
	Name  string `json:"name"`
	Icons []Icon `json:"icons"`
}

// IconGroups is the picker layout. Together with IconNone it is the whole
// icon set.
var IconGroups = []IconGroup{
	{"media", []Icon{IconPlay, "pause", "stop", "skip-forward", "skip-back"}},
	{"marks", []Icon{IconHeart, IconStar, "bookmark", "flag", "tag"}},
	{"messaging", []Icon{"mail", "phone", "message-circle", "send", "inbox"}},
	{"infrastructure", []Icon{"database", "server", "cloud", "hard-drive", "cpu"}},
	{"development", []Icon{"code", "terminal", "git-branch", "package", "box"}},
	{"tools", []Icon{IconSettings, "cog", "wrench", "tool", "sliders"}},
	{"people", []Icon{"users", "user", "user-plus", "user-check", "user-x"}},
	{"places", []Icon{"home", "building", "map", "compass", "navigation"}},
	{"status", []Icon{IconCheck, "x", "plus", "minus", "alert-circle"}},
	{"safety", []Icon{"info", "help-circle", IconAlertTriangle, "shield", "lock"}},
	{"arrows", []Icon{IconArrowRight, "arrow-left", "arrow-up", "arrow-down", "corner-down-right"}},
	{"nature", []Icon{IconZap, "flame", "sun", IconMoon, IconCircle}},
	{"geometry", []Icon{IconSquare, "triangle", IconHexagon, IconDiamond, "octagon"}},
	{"shape defaults", []Icon{IconCircleDot, IconTarget, IconLayers, IconPill, IconGrid2x2}},
}

var iconTable = func() map[Icon]struct{} {
	m := map[Icon]struct{}{IconNone: {}}
	for _, g := range IconGroups {
		for _, ic := range g.Icons {
			m[ic] = struct{}{}
		}
	}
	return m
}()

func (i Icon) Valid() bool {
	_, ok := iconTable[i]
	return ok
}

// Visible reports whether the renderer should draw anything for i.
func (i Icon) Visible() bool {
	return i != "" && i != IconNone
}
