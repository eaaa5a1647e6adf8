// Package sanitizer provides input normalization for user-supplied dispatch
// data.
//
// All functions are idempotent - applying them twice produces the same
// result. Invalid input is handled gracefully by returning empty strings or
// empty slices rather than errors.
//
// Normalization includes:
//   - Notification titles and bodies: collapse whitespace, trim
//   - Skill tags: lowercase, collapse whitespace - "Plumbing  Services" becomes "plumbing services"
//   - Deep links: enforce HTTPS, lowercase domains, strip tracking parameters
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
