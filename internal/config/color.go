package config

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// ColorSettings are the terminal colorization settings derived from the environment.
type ColorSettings struct {
	ForceColor         bool
	NoColor            bool
	TrueColorColorterm bool
	Term256Color       bool
}

func ColorSettingsFromEnv() ColorSettings {
	return ColorSettingsFromLookup(os.LookupEnv)
}

func ColorSettingsFromLookup(lookup func(key string) (string, bool)) ColorSettings {
	var settings ColorSettings

	isSet := func(name string) bool {
		s, ok := lookup(name)
		return ok && len(s) != 0 && s != "false" && s != "0"
	}

	// FORCE COLOR

	settings.ForceColor = isSet("FORCE_COLOR")

	//NO_COLOR

	settings.NoColor = isSet("NO_COLOR")

	//TERMCOLOR

	colorterm, _ := lookup("COLORTERM")
	settings.TrueColorColorterm = colorterm == "truecolor"

	//TERM

	term, _ := lookup("TERM")
	settings.Term256Color = strings.Contains(term, "256color")

	return settings
}

func (s ColorSettings) ShouldColorize() bool {
	return !s.NoColor && (s.ForceColor || s.TrueColorColorterm || s.Term256Color)
}

// Profile returns the termenv profile used to render colors, termenv.Ascii if colors are disabled.
func (s ColorSettings) Profile() termenv.Profile {
	switch {
	case !s.ShouldColorize():
		return termenv.Ascii
	case s.TrueColorColorterm:
		return termenv.TrueColor
	case s.Term256Color:
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
