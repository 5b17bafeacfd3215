package domain

import "fmt"

// ClientID identifies an account holder. Stable across the lifetime of the
// ledger; the wire format (CSV "client" column) carries it as an unsigned
// 16-bit integer.
type ClientID uint16

// TxID identifies a single transaction. Deposits and withdrawals mint new
// tx ids; disputes, resolves and chargebacks reference one that already
// exists in the journal.
type TxID uint32

// SequenceNr is the journal's global append order. Assigned exclusively by
// Journal.Append, starting at 1. Never assigned by a command handler.
type SequenceNr uint64

// DeduplicationKey is an opaque, caller-supplied identifier for "the same
// command delivered twice". It is not derived from command content, so two
// distinct commands with identical type/client/tx/amount fields are still
// distinguishable by their keys (e.g. two CSV rows at different line
// numbers, or two Kafka records at different offsets).
type DeduplicationKey string

// CSVDeduplicationKey builds the dedup key for a command read from a CSV
// file, keyed by file path and 1-indexed line number.
func CSVDeduplicationKey(path string, line int) DeduplicationKey {
	return DeduplicationKey(fmt.Sprintf("csv:%s:%d", path, line))
}

// KafkaDeduplicationKey builds the dedup key for a command read off a Kafka
// partition/offset pair.
func KafkaDeduplicationKey(partition int32, offset int64) DeduplicationKey {
	return DeduplicationKey(fmt.Sprintf("kafka:%d:%d", partition, offset))
}
