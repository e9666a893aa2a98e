// Package ui prints lookup reports for humans.
//
// A Printer writes per-report detail blocks and a closing summary with one
// "✓ SUCCESS" or "✗ FAILED" line per report. ANSI colors are used only when
// the destination is a terminal and color has not been disabled. Quiet mode
// keeps the summary, warnings and errors.
package ui
