// Package snapshot persists resolved configurations so that the exact
// inputs of an analysis run can be inspected later.
//
// Each snapshot is a JSON file named by a random UUID and carries a SHA-256
// digest of the resolved root configuration, which makes identical
// resolutions easy to spot in a listing. Entries older than the configured
// TTL are reported as expired and skipped on lookup.
package snapshot
