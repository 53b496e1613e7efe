package commands

import (
	"fmt"
	"sort"
)

// ═══════════════════════════════════════════════════════════
// Common formatting helpers
// every command prints with the same layout
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled block of key/value lines, keys sorted
func PrintHeader(title string, fields map[string]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-11s: %s\n", k, fields[k])
	}

	PrintSeparator()
}

// PrintProgress prints a progress step with counter
// Example: [Plot] Exxon Mobil (XOM) SMA -> charts/exxon-mobil_xom_sma.png [1/4]
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Printf("[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println()
	fmt.Printf("✅ %s\n", message)
}
