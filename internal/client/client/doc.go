// Package client contains the Remote Gateway used by the taxdesk core.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): list records,
//     list countries, update one record, rename one country, and Ping.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that attaches a
//     bearer token and a request id to every call and decodes the store's
//     canonical representation from each write response.
//
// # Error Handling
//
// Every failed call returns a *models.RemoteError carrying the operation name
// and, when a response arrived, its HTTP status. Transport conditions are
// wrapped inside it as sentinels that callers can match with errors.Is:
// ErrUnavailable (network failure or 502/503/504) and ErrUnauthorized
// (401/403).
//
// Implementations are safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
