// Package events defines the typed event contract between the MineKB
// backend and the client-side stream coordinator.
//
// Event kinds are exactly the bus channel names the backend publishes on:
//
//   - stream-start
//   - stream-token
//   - stream-context
//   - stream-end
//   - stream-error
//   - startup-progress
//
// Semantics used across the package:
//
//   - ConversationID: opaque correlation key binding one request to its
//     stream of pushed events. Every stream event carries it; events whose
//     key does not match the active request are foreign noise, not protocol
//     violations.
//   - Token: append-only response text fragment emitted in stream order.
//   - Sources: retrieval provenance for the response being generated.
//   - Content: terminal, authoritative aggregated response text. Token
//     fragments are best-effort; Content is not.
//
// stream events
//
//   - StreamStarted (stream-start): generation began for a conversation.
//     The wire payload is the bare conversation id, not an object.
//   - StreamToken (stream-token): one response text fragment.
//   - StreamContext (stream-context): the retrieved sources that ground the
//     response, ordered by relevance.
//   - StreamEnded (stream-end): terminal success; carries the full response.
//   - StreamFailed (stream-error): terminal failure; carries a description.
//
// startup events
//
//   - StartupProgress (startup-progress): backend initialization progress.
//     A single process-wide channel with no conversation correlation;
//     status "success" at the final step or status "error" is terminal.
//
// Wire payloads are JSON. Decode turns a raw bus envelope into a typed
// event; PayloadSchema documents each channel's payload shape.
package events
