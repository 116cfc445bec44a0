package idgen

import (
	"errors"
	"fmt"
	"strings"
)

// Width is the number of characters an encoding produces.
type Width uint8

const (
	// Narrow encodes the low 36 bits of a value in 6 characters.
	Narrow Width = NarrowLen
	// Wide encodes all 64 bits of a value in 11 characters.
	Wide Width = WideLen
)

// ErrInvalidWidth is returned when a width is neither Narrow nor Wide.
var ErrInvalidWidth = errors.New("invalid id width")

// Len returns the number of output characters.
func (w Width) Len() int {
	return int(w)
}

// Validate returns ErrInvalidWidth unless w is Narrow or Wide.
func (w Width) Validate() error {
	switch w {
	case Narrow, Wide:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidWidth, uint8(w))
}

func (w Width) String() string {
	switch w {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	}
	return fmt.Sprintf("width(%d)", uint8(w))
}

// ParseWidth accepts "narrow"/"wide" (any case) or the character counts
// "6"/"11". The empty string selects Narrow.
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "narrow", "6":
		return Narrow, nil
	case "wide", "11":
		return Wide, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWidth, s)
}
