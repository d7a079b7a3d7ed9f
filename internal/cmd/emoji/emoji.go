// Package emoji provides the status symbols printed by ftbatch commands.
package emoji

const (
	// Success marks a completed reconciliation or an unchanged workbook.
	Success = "✅"

	// Error marks a rejected workbook.
	Error = "❌"

	// Warning marks a skipped sheet or another non-fatal problem.
	Warning = "⚠️"

	// Output marks the folder that received written recipes.
	Output = "📁"
)
