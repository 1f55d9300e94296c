package main

import "bytes"

// =============================================================================
// IN-MEMORY SIDECAR KEY SCHEMAS (mempool-resident, never persisted)
// =============================================================================

// MempoolAddressDeltaKey is the compound key of the mempool's ordered
// address-delta multi-map. Sort order is the strict lexicographic
// comparator over (Type, Hash, TxHash, Index, Spending) — see
// mempoolAddressDeltaKeyLess.
type MempoolAddressDeltaKey struct {
	Type     AddressType
	Hash     Hash160
	TxHash   TxId
	Index    uint32
	Spending int32 // 1 = debit (input), 0 = credit (output)
}

// MempoolAddressDelta is the value half of the address-delta entry. Amount
// is positive for credits (outputs) and negative for debits (inputs).
type MempoolAddressDelta struct {
	Time     int64
	Amount   int64
	PrevHash TxId
	PrevOut  uint32
}

// mempoolAddressDeltaKeyLess implements the tuple comparator from §4.4:
// type, then address, then tx hash, then index, then spending.
func mempoolAddressDeltaKeyLess(a, b MempoolAddressDeltaKey) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if c := bytes.Compare(a.Hash[:], b.Hash[:]); c != 0 {
		return c < 0
	}
	if c := bytes.Compare(a.TxHash[:], b.TxHash[:]); c != 0 {
		return c < 0
	}
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Spending < b.Spending
}

func mempoolAddressDeltaKeyEqual(a, b MempoolAddressDeltaKey) bool {
	return a.Type == b.Type && a.Hash == b.Hash && a.TxHash == b.TxHash &&
		a.Index == b.Index && a.Spending == b.Spending
}

// SpentIndexKey identifies the outpoint that was consumed.
type SpentIndexKey struct {
	TxHash TxId
	Index  uint32
}

// SpentIndexValue records who spent it and at what price, at mempool time
// or after confirmation. BlockHeight == -1 while the spend is only in the
// mempool.
type SpentIndexValue struct {
	SpendTxHash  TxId
	InputIndex   uint32
	BlockHeight  int32
	Satoshis     int64
	AddressType  AddressType
	AddressHash  Hash160
}

const MempoolSpentHeightUnconfirmed int32 = -1
