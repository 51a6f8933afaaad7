// Package render produces the user-facing answer text.
//
// Answers are mustache templates keyed by name (see the Key constants).
// Variables are looked up by dotted path, so {{metadata.provider}} reads
// the provider from a claim's metadata map, and a missing variable renders
// as an empty string. Output is not HTML escaped.
//
// Amounts are formatted as currency through golang.org/x/text so digit
// grouping follows the configured language.
package render
