package view

import "fmt"

// Overlay names the single filter menu that is open.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayCountry
	OverlayGender
	OverlayDate
)

var overlayNames = map[Overlay]string{
	OverlayNone:    "none",
	OverlayCountry: "country",
	OverlayGender:  "gender",
	OverlayDate:    "date",
}

func (o Overlay) String() string {
	if s, ok := overlayNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Overlay(%d)", int(o))
}

// ParseOverlay maps a menu name to its Overlay.
func ParseOverlay(s string) (Overlay, bool) {
	for o, name := range overlayNames {
		if name == s {
			return o, true
		}
	}
	return OverlayNone, false
}

// Open returns the overlay state after the user opens menu next. Opening the menu
// that is already open closes it; opening another replaces it.
func (o Overlay) Open(next Overlay) Overlay {
	if o == next {
		return OverlayNone
	}
	return next
}

// Dismiss closes whatever is open.
func (o Overlay) Dismiss() Overlay { return OverlayNone }
