// Package tenk locates named sections inside annual-report filings and
// extracts the markup between a section's start header and the header of the
// section that follows it.
//
// The root package holds the domain types and interfaces. Implementations
// live in subpackages named after the dependency they wrap: goquery for the
// structural strategies, extract for the orchestrator and the text fallback,
// http for EDGAR, fs and sqlite for persistence.
package tenk
