package cli

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

type Severity int

const (
	Title Severity = iota
	Info
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Title:
		return "title"
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

var (
	styleTitle   = promptui.Styler(promptui.FGBold, promptui.FGCyan)
	styleSuccess = promptui.Styler(promptui.FGGreen)
	styleError   = promptui.Styler(promptui.FGRed)
)

// StatusPrinter writes user facing status lines.
type StatusPrinter struct {
	Out   io.Writer
	Color bool
}

func NewStatusPrinter(out io.Writer, color bool) *StatusPrinter {
	return &StatusPrinter{Out: out, Color: color}
}

func (p *StatusPrinter) Status(severity Severity, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.Color {
		switch severity {
		case Title:
			msg = styleTitle(msg)
		case Success:
			msg = promptui.IconGood + " " + styleSuccess(msg)
		case Error:
			msg = promptui.IconBad + " " + styleError(msg)
		}
	} else if severity != Info {
		msg = fmt.Sprintf("[%s] %s", severity, msg)
	}
	fmt.Fprintln(p.Out, msg)
}
