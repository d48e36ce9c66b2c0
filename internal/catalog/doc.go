// Package catalog fetches book records from the Google Books volumes API.
//
// A Client pages through a fixed list of search queries, pacing every
// request through one shared rate limiter and retrying throttled responses
// with exponential backoff. Queries run concurrently up to a configured
// limit; the merged result is ordered by query and page, deduplicated by
// ISBN-10 and normalized to NFC before it reaches the rest of the pipeline.
package catalog
