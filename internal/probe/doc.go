// Package probe performs the per-language reachability checks for langprobe.
//
// This package is internal to langprobe and handles the single HTTP request
// made for each language code. It knows how to build the documentation URL
// for a code, perform a bounded GET, and classify the outcome from the
// status line alone.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper with per-request timeouts
//   - [Prober]: Builds URLs and classifies responses
//   - [Result]: Outcome of probing a single language code
//   - [Item]: One language code to probe
//
// A probe never fails in the Go-error sense from the caller's perspective:
// transport failures are folded into the [Result] as an unsupported
// classification so that one broken check cannot disturb the batch.
package probe
