// Package remote is the client side of the studydeck persistence service.
//
// Client is the transport-agnostic contract over four record kinds (decks,
// flashcards, message threads, messages) plus accounts and source-document
// uploads. GRPCClient implements it over gRPC: it attaches the access token
// to every call, refreshes an expired token once and retries, and maps gRPC
// status codes to sentinel errors (ErrUnavailable, ErrUnauthorized,
// common.ErrorNotFound).
//
// Calls are plain request/response. There is no caching and no retry beyond
// the token refresh; callers own their failure policy.
package remote
