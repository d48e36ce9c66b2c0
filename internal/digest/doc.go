// Package digest fingerprints generated datasets.
//
// Tables are serialized to canonical JSON (RFC 8785 style: keys sorted by
// UTF-16 code units, minimal string escaping, NFC-normalized strings, no
// floats) and hashed with SHA-256 under a versioned domain prefix. Two runs
// with the same seed and inputs produce the same digest, which makes the
// digest a cheap reproducibility check for CLI runs and tests.
package digest
