package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/tollcalc/internal/table"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// maxPrintedRows caps table previews on stdout; --out always gets every row
const maxPrintedRows = 20

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTable prints up to maxRows rows of t as aligned columns
func PrintTable(t *table.Table, maxRows int) {
	fmt.Print(formatTable(t, maxRows))
}

// formatTable renders up to maxRows rows of t as aligned columns
func formatTable(t *table.Table, maxRows int) string {
	var b strings.Builder
	if len(t.Columns) == 0 {
		b.WriteString("(empty table)\n")
		return b.String()
	}

	n := t.Len()
	if maxRows > 0 && n > maxRows {
		n = maxRows
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
		for r := 0; r < n; r++ {
			if w := len(t.Rows[r][col]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(values []string) {
		for i, val := range values {
			fmt.Fprintf(&b, "%-*s", widths[i], val)
			if i < len(values)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	writeRow(t.Columns)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2
		}
	}
	b.WriteString(strings.Repeat("─", totalWidth))
	b.WriteString("\n")

	values := make([]string, len(t.Columns))
	for r := 0; r < n; r++ {
		for i, col := range t.Columns {
			values[i] = t.Rows[r][col]
		}
		writeRow(values)
	}

	if n < t.Len() {
		fmt.Fprintf(&b, "... %d more rows\n", t.Len()-n)
	}
	return b.String()
}
