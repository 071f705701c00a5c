/*
Package ledger keeps a record of the exports Heartbridge has written.

# Why a Ledger?

Shortcuts automations often fire more than once for the same day. The ledger
lets the server notice a resubmission (same record type and samples, detected
by fingerprint) and lists recent exports over HTTP without scanning the
output directory.

Two backends implement the Ledger interface:
  - memory: used when no ledger path is configured, and in tests
  - badger: persistent, survives restarts, pruned on a schedule

# Key Layout (badger)

	e | exported_at (8 bytes, big endian) | id   -> JSON entry
	f | fingerprint (8 bytes, big endian)      -> entry key

Entry keys sort by export time, so Recent walks them in reverse and Prune
walks forward until it reaches the cutoff.
*/
package ledger
