package page

import "strings"

// styleField identifies one animatable style value on an element.
type styleField int

const (
	fieldOpacity styleField = iota
	fieldTranslateY
	fieldDashOffset
	fieldRadius
	fieldWidth
)

// Style is a snapshot of the animatable values of one element.
type Style struct {
	Opacity    float32 `json:"opacity"`
	TranslateY float32 `json:"translate_y"`
	DashOffset float32 `json:"dash_offset"`
	Radius     float32 `json:"radius"`
	Width      float32 `json:"width"`
}

// element is one node in the synthetic tree.
type element struct {
	tag     string
	classes []string
	kind    ShapeKind
	style   Style
	pathLen float32
}

func (e *element) hasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// matches supports class selectors (".name") and tag selectors ("path").
func (e *element) matches(selector string) bool {
	if name, ok := strings.CutPrefix(selector, "."); ok {
		return e.hasClass(name)
	}
	return e.tag == selector
}

func (e *element) get(f styleField) float32 {
	switch f {
	case fieldOpacity:
		return e.style.Opacity
	case fieldTranslateY:
		return e.style.TranslateY
	case fieldDashOffset:
		return e.style.DashOffset
	case fieldRadius:
		return e.style.Radius
	default:
		return e.style.Width
	}
}

func (e *element) set(f styleField, v float32) {
	switch f {
	case fieldOpacity:
		e.style.Opacity = v
	case fieldTranslateY:
		e.style.TranslateY = v
	case fieldDashOffset:
		e.style.DashOffset = v
	case fieldRadius:
		e.style.Radius = v
	default:
		e.style.Width = v
	}
}
