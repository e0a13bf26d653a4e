package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the groundwork banner with a subtle gradient.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                                _                      _    `, "#818cf8"},
		{`  __ _ _ __ ___  _   _ _ __   __| |_      _____  _ __| | __`, "#a78bfa"},
		{` / _' | '__/ _ \| | | | '_ \ / _' \ \ /\ / / _ \| '__| |/ /`, "#c084fc"},
		{`| (_| | | | (_) | |_| | | | | (_| |\ V  V / (_) | |  |   < `, "#e879f9"},
		{` \__, |_|  \___/ \__,_|_| |_|\__,_| \_/\_/ \___/|_|  |_|\_\`, "#f472b6"},
		{` |___/                                                     `, "#fb7185"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
