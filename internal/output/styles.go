package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles shared by all commands. Colors follow a muted
// palette so tables stay readable on both light and dark terminals.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// Title renders a section heading.
func Title(text string) string {
	return titleStyle.Render(text)
}

// Errorf renders a user-facing error line.
func Errorf(format string, args ...any) string {
	return errorStyle.Render("Error:") + " " + fmt.Sprintf(format, args...)
}

// Warnf renders a warning line.
func Warnf(format string, args ...any) string {
	return warnStyle.Render(fmt.Sprintf(format, args...))
}

// Successf renders a confirmation line.
func Successf(format string, args ...any) string {
	return successStyle.Render(fmt.Sprintf(format, args...))
}

// Hint renders dimmed supplementary text, such as recovery advice
// under an error.
func Hint(text string) string {
	return hintStyle.Render(text)
}
