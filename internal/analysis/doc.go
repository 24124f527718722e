// Package analysis computes descriptive summaries of downtime events from
// the featured event table: duration statistics, the long-tail share of
// downtime, and burst versus isolated event totals.
package analysis
