// Package portal is the lecturer-portal REST client.
//
// Client wraps go-resty with bearer authentication, an optional request rate
// limit, trace ID propagation and a network-first offline cache for GET
// listings. Each listing has a pagination.Config describing how it is
// searched, filtered and sorted, and a fetcher that adapts the endpoint to
// pagination.Result.
package portal
