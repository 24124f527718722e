// Package features derives analysis features from the cleaned tables.
//
// Every builder is a pure whole-table transformation: it copies its input,
// never mutates it, and gives each derived column an explicit null rule.
// A nil result means "undefined" (no predecessor, a non-positive divisor, a
// missing operand) and is never replaced with zero or false.
package features
