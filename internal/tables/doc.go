// Package tables reads and writes the generator's tabular files.
//
// Every table is a CSV file with a fixed header row. Booleans are written as
// 0/1, a missing committed_at is an empty cell and prices keep their exact
// decimal representation. The same rows can also be exported as an XLSX
// workbook with one sheet per table.
package tables
