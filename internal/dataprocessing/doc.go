// Package dataprocessing turns the raw plant workbook into typed, cleaned
// tables.
//
// # Architecture
//
// The package has three parts:
//
//  1. Workbook: opens the .xlsx export with excelize and reads a sheet as
//     header plus raw cell strings
//  2. Cells: coerces single cells (numbers, efficiency percentages, dates,
//     time-of-day values in any of the formats the export produces)
//  3. Preparer: cleans each of the four sheets into domain records
//
// # Usage
//
//	p := dataprocessing.NewPreparer(logger, dataprocessing.DefaultPrepareOptions())
//	tables, err := p.Prepare(ctx, "data/raw/dataset.xlsx")
//	if err != nil {
//	    return err
//	}
//	tables.Coercions.Each(func(table, column string, n int) { ... })
//
// # Coercion
//
// A cell that cannot be parsed never fails the run. It is stored as null
// and counted in the CoercionReport under its table and column. A missing
// sheet or a missing required column does fail the run.
package dataprocessing
