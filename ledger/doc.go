// Package ledger keeps the history of the rounds played in a session.
//
// # Core Components
//
// Ledger: an append-only log of finished rounds with SHA256 hash chaining
// for tamper detection.
//
// Block: a single round record with its link to the previous block.
//
// # Usage
//
// The server keeps one ledger per session and the client one per game. Append
// a RoundRecord after each round; Tally gives the wins, losses and ties and
// Verify checks that the chain is intact. The ledger lives in memory only.
package ledger
