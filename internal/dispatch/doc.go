// Package dispatch broadcasts a finalized equipment event to independent external targets.
//
// Every target runs concurrently under its own timeout and the dispatcher waits for all of
// them; one failure never cancels or short-circuits the rest. There are no retries, and
// redelivery is the caller's concern.
package dispatch
