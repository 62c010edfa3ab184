// Package theme holds the chart color tables.
package theme

import (
	"errors"
	"fmt"
)

// ErrUnknownTheme is returned by Get for names other than "light" and "dark".
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a set of hex colors ("#rrggbb").
type Theme struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Grid       string `json:"grid"`
	Text       string `json:"text"`
	Axis       string `json:"axis"`
	CandleUp   string `json:"candleUp"`
	CandleDown string `json:"candleDown"`
	Drawing    string `json:"drawing"`
	Indicator  string `json:"indicator"`
	Crosshair  string `json:"crosshair"`
}

var themes = map[string]Theme{
	"light": {
		Name:       "light",
		Background: "#ffffff",
		Grid:       "#e0e0e0",
		Text:       "#333333",
		Axis:       "#000000",
		CandleUp:   "#26a69a",
		CandleDown: "#ef5350",
		Drawing:    "#2196f3",
		Indicator:  "#ff9800",
		Crosshair:  "#9e9e9e",
	},
	"dark": {
		Name:       "dark",
		Background: "#1a1a1a",
		Grid:       "#2a2a2a",
		Text:       "#d0d0d0",
		Axis:       "#808080",
		CandleUp:   "#26a69a",
		CandleDown: "#ef5350",
		Drawing:    "#2196f3",
		Indicator:  "#ff9800",
		Crosshair:  "#757575",
	},
}

// Get returns the named theme.
func Get(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// Default is the light theme, used when none is set.
func Default() Theme {
	return themes["light"]
}
