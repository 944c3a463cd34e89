package annotate

import "errors"

var (
	// ErrNoPopup is returned by popup actions while the popup is closed.
	ErrNoPopup = errors.New("no annotation popup is open")

	// ErrWrongMode is returned when an action does not apply to the popup's
	// current mode, e.g. tagging a selection that is not yet an annotation.
	ErrWrongMode = errors.New("action not available in this popup mode")

	// ErrColorType is returned when a color is outside the palette of the
	// chosen type, or an edit tries to change the annotation's type.
	ErrColorType = errors.New("color does not belong to annotation type")
)
