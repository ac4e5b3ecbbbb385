// Package auth implements the gateway's access gate: a single shared secret
// that every request must present.
//
// The comparison is constant-time. An empty configured secret never matches,
// so a gateway started without a secret refuses every request instead of
// running open.
package auth
