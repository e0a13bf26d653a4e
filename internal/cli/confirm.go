package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// confirm asks before a host-mutating run. A non-interactive stdin counts
// as a refusal, so unattended runs must pass --yes instead of hanging on a
// prompt that nobody will answer.
func confirm(in *os.File, out io.Writer, question string) bool {
	if !term.IsTerminal(int(in.Fd())) {
		return false
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// interactive reports whether rich output and prompts make sense.
func interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
