// Package pagination holds the list state shared by every lectern listing.
//
// A State owns the filter, sort and page parameters of one listing and produces the
// page that should currently be visible. It contains:
//   - State: filter/sort/page state machine generic over the item type
//   - Command: user interactions (search, filter, sort, page) dispatched to a State
//   - Request/Result: sequenced fetches for server-side paginated listings
//   - Params and ParseSort: CLI flag parsing and validation
//   - Meta: response metadata for machine-readable output
//
// A State is not safe for concurrent use. It is owned by a single goroutine, typically
// the Bubble Tea event loop or a CLI command.
package pagination
