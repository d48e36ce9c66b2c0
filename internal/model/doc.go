// Package model defines the tabular records exchanged between the demo-data
// generators, the synthesis engine and the relational loader.
//
// All integer fields are fixed-width. Timestamps are epoch milliseconds.
// Warehouse id 0 is the "no warehouse" sentinel and is persisted as NULL.
package model
