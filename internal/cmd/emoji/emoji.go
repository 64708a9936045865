// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status indicators across commands.
const (
	// Success marks a resolved identifier or a registered family.
	Success = "✓"

	// Error marks an identifier the catalog does not know.
	Error = "✗"

	// Warning marks a lookup that failed for another reason.
	Warning = "!"

	// Optional marks a family that is known but not registered.
	Optional = "-"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)
