// Package generate produces the warehouse table and the preliminary note
// table that feed transaction synthesis.
//
// Distribution parameters default to values fitted on production data: a
// third of notes are inbound, note sizes are geometric with means 8 (inbound)
// and 3 (outbound), and notes become more likely to be committed the older
// they are.
package generate
