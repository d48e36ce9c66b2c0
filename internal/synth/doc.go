// Package synth turns a catalogue of books, a set of warehouses and a
// chronological sequence of inbound/outbound notes into a transaction
// ledger in which no warehouse ever holds negative stock.
//
// PIPELINE:
//
//  1. sampling.GEM draws popularity weights over catalogue slots.
//  2. sampling.SelectCatalogue maps slots onto books.
//  3. DrawQuantities splits every note's n_books over the slots.
//  4. AssignWarehouses attributes each non-zero cell to a warehouse.
//  5. Reconcile scans the notes chronologically and computes the minimal
//     corrections that keep every (warehouse, slot) stock non-negative.
//  6. Assemble interleaves reconciliation notes, renumbers the notes and
//     flattens the cells into transaction rows.
//
// QUANTITY TENSOR:
//
// Conceptually the data is a tensor T[warehouse][note][slot]. Almost every
// cell is zero (a note touches a handful of slots), so each note is held as
// a sparse Row of non-zero cells ordered by (warehouse, slot). The
// reconciliation scan keeps one stock accumulator and one running minimum
// per (warehouse, slot) pair.
//
// Every stage is single-threaded and draws randomness from an explicit
// *rand.Rand, so a seed fully determines the output.
package synth
