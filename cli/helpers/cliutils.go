package helpers

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/cobra"
)

// Truncate returns s cut down to at most maxLength characters. Strings that
// are over the limit end with "..." unless the limit itself is too small to
// fit the ellipsis.
func Truncate(s string, maxLength int) string {
	const ellipsis = "..."
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= len(ellipsis) {
		return s[:maxLength]
	}
	return s[:maxLength-len(ellipsis)] + ellipsis
}

// FormatDuration renders a duration at the precision a human skims: whole
// milliseconds below a second, one decimal above.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// GetFlagBoolWithDefault reads a boolean flag, falling back to defaultValue
// when the flag is not registered on the command.
func GetFlagBoolWithDefault(cmd *cobra.Command, flagName string, defaultValue bool) bool {
	value, err := cmd.Flags().GetBool(flagName)
	if err != nil {
		return defaultValue
	}
	return value
}

// GetWorkingDirectory wraps os.Getwd so a failure surfaces as a structured
// CLI error.
func GetWorkingDirectory() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", NewCliError("DIRECTORY_ERROR", "Failed to get current working directory", err.Error())
	}
	return dir, nil
}

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// SanitizeForJSON strips control characters other than tab, newline and
// carriage return so error text stays printable inside JSON output.
func SanitizeForJSON(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
