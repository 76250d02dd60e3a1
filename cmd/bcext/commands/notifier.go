package commands

import (
	"io"

	"github.com/fatih/color"
)

// ConsoleNotifier prints informational messages in green and errors in red.
type ConsoleNotifier struct {
	out     io.Writer
	errOut  io.Writer
	info    *color.Color
	failure *color.Color
}

// NewConsoleNotifier creates a notifier. noColor disables ANSI colors.
func NewConsoleNotifier(out, errOut io.Writer, noColor bool) *ConsoleNotifier {
	info := color.New(color.FgGreen)
	failure := color.New(color.FgRed, color.Bold)

	if noColor {
		info.DisableColor()
		failure.DisableColor()
	}

	return &ConsoleNotifier{
		out:     out,
		errOut:  errOut,
		info:    info,
		failure: failure,
	}
}

func (n *ConsoleNotifier) Info(msg string) {
	_, _ = n.info.Fprintln(n.out, msg)
}

func (n *ConsoleNotifier) Error(msg string) {
	_, _ = n.failure.Fprintln(n.errOut, msg)
}
