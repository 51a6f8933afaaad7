// Package intent turns free query text into a structured Intent.
//
// Extraction is deliberately shallow: a claim number pattern, an ordered
// list of keyword rules for status and time window filters, and a keyword
// check for denial interest. There is no language understanding beyond
// substring and regular expression matching.
//
// Rules are evaluated in order. The first matching StatusRule sets the
// status filter; every TimeRule is evaluated and the last match sets the
// time window, so "last year ... last quarter" filters to the quarter.
package intent
