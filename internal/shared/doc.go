// Package shared holds helpers used by more than one package of the
// downtime pipeline that belong to no single stage.
//
// The testutil subpackage provides:
//
//   - A captured slog handler for asserting on log output
//   - A workbook builder producing raw plant exports for tests
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    path := testutil.NewWorkbook().WithStandardSheets().Save(t)
//	    logger, logs := testutil.NewTestLogger(t)
//	    // run a stage against path with logger
//	}
package shared
