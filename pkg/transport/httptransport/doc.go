// Package httptransport delivers submission snapshots to an HTTP endpoint as
// JSON or form-urlencoded payloads.
package httptransport
