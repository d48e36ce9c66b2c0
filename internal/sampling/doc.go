// Package sampling provides the random draws used by the demo-data
// pipeline: the truncated stick-breaking (GEM) weights over catalogue slots,
// the catalogue selection and the small set of discrete/continuous
// distributions the generators need.
//
// Every function takes an explicit *rand.Rand. There is no package-level
// random state; a run seeded with the same value replays the same draws.
package sampling
