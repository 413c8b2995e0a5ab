package palette

// Drop is the eight-gradient table the drop menu picks from at random.
var Drop = []Gradient{
	MustGradient("#ff699f", "#a769ff"),
	MustGradient("#683fee", "#527ee1"),
	MustGradient("#ee663f", "#f5678d"),
	MustGradient("#ee9ca7", "#ffdde1"),
	MustGradient("#f7971e", "#ffd200"),
	MustGradient("#56ccf2", "#2f80ed"),
	MustGradient("#fc5c7d", "#6a82fb"),
	MustGradient("#dce35b", "#45b649"),
}

// Sticky is the warm table used label by label.
var Sticky = []Gradient{
	MustGradient("#df872d", "#b35e07"),
	MustGradient("#e2ad76", "#bb7d6e"),
	MustGradient("#5d3d42", "#5d2d29"),
}

// Hinge is the green table used label by label.
var Hinge = []Gradient{
	MustGradient("#76b36f", "#d8f285"),
	MustGradient("#86de93", "#4c7b69"),
	MustGradient("#67c473", "#3d7d36"),
}

// Named maps table names accepted in config files.
var Named = map[string][]Gradient{
	"drop":   Drop,
	"sticky": Sticky,
	"hinge":  Hinge,
}
