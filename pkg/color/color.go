package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	profile      = termenv.ANSI256
	colorEnabled = true
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		colorEnabled = false
	}
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

// style applies a foreground colour and optional bold through termenv
func style(text string, fg termenv.ANSIColor, bold bool) string {
	if !colorEnabled {
		return text
	}
	s := termenv.String(text).Foreground(profile.Convert(fg))
	if bold {
		s = s.Bold()
	}
	return s.String()
}

func RedText(text string) string {
	return style(text, termenv.ANSIRed, false)
}

func BrightRedText(text string) string {
	return style(text, termenv.ANSIBrightRed, true)
}

func GreenText(text string) string {
	return style(text, termenv.ANSIGreen, false)
}

func YellowText(text string) string {
	return style(text, termenv.ANSIYellow, false)
}

func BlueText(text string) string {
	return style(text, termenv.ANSIBlue, false)
}

func MagentaText(text string) string {
	return style(text, termenv.ANSIMagenta, false)
}

func CyanText(text string) string {
	return style(text, termenv.ANSICyan, false)
}

func GrayText(text string) string {
	return style(text, termenv.ANSIBrightBlack, false)
}

func Error(message string) string {
	return BrightRedText("Error: ") + message
}

func Warning(message string) string {
	return YellowText("Warning: ") + message
}

func Info(message string) string {
	return BlueText("Info: ") + message
}

func Highlight(text, highlight string) string {
	if !colorEnabled {
		return text
	}
	return strings.ReplaceAll(text, highlight, YellowText(highlight))
}

func Position(line, col int) string {
	return CyanText(fmt.Sprintf("%d:%d", line, col))
}

// ErrorWithPosition renders a located error followed by the offending source line
func ErrorWithPosition(source string, line, col int, message, context string) string {
	where := fmt.Sprintf("%s:%s", source, Position(line, col))
	if context == "" {
		return fmt.Sprintf("%s at %s: %s", BrightRedText("Error"), where, message)
	}

	marker := strings.Repeat(" ", max(col-1, 0)) + "^"
	return fmt.Sprintf("%s at %s: %s\n%s\n%s",
		BrightRedText("Error"),
		where,
		message,
		GrayText(context),
		RedText(marker))
}
