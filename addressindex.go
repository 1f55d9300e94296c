package main

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/wire"
)

// =============================================================================
// MEMPOOL ADDRESS INDEX (in-memory sidecar)
// =============================================================================
//
// mapAddress is an ordered multi-map keyed by MempoolAddressDeltaKey. It is
// implemented the same way the teacher's own byFee/byTime indices are: a
// sorted slice plus sort.Search-based binary insertion, rather than reaching
// for an external sorted-container library nothing in the pack imports
// directly for this purpose.

// FatalIndexError marks an invariant violation that should halt the caller
// (§7 error kind 1) rather than be treated as an ordinary recoverable error.
type FatalIndexError struct {
	msg string
}

func (e *FatalIndexError) Error() string { return e.msg }

func fatalIndexErrorf(format string, args ...interface{}) error {
	return &FatalIndexError{msg: fmt.Sprintf(format, args...)}
}

// DiskTxReader resolves a previous output by its outpoint from the
// persistent store. It is the Go expression of "read-only lookup of a
// transaction by outpoint" from the external interfaces contract: the
// mempool never writes through it.
type DiskTxReader interface {
	ReadDiskTx(out wire.OutPoint) (*wire.MsgTx, bool)
}

func (mp *Mempool) addressDeltaInsertIndex(key MempoolAddressDeltaKey) int {
	return sort.Search(len(mp.addressDeltas), func(i int) bool {
		return !mempoolAddressDeltaKeyLess(mp.addressDeltas[i].key, key)
	})
}

func (mp *Mempool) insertAddressDelta(key MempoolAddressDeltaKey, delta MempoolAddressDelta) {
	i := mp.addressDeltaInsertIndex(key)
	mp.addressDeltas = append(mp.addressDeltas, addressDeltaEntry{})
	copy(mp.addressDeltas[i+1:], mp.addressDeltas[i:])
	mp.addressDeltas[i] = addressDeltaEntry{key: key, delta: delta}
}

func (mp *Mempool) eraseAddressDelta(key MempoolAddressDeltaKey) {
	i := mp.addressDeltaInsertIndex(key)
	if i < len(mp.addressDeltas) && mempoolAddressDeltaKeyEqual(mp.addressDeltas[i].key, key) {
		mp.addressDeltas = append(mp.addressDeltas[:i], mp.addressDeltas[i+1:]...)
	}
}

// AddAddressIndex classifies every input's previous output and every
// output of tx, inserting a MempoolAddressDeltaKey/Delta pair for each
// indexable one. Inputs whose previous transaction cannot be resolved from
// disk are silently skipped (§7 kind 2, not an error); an out-of-range
// output index on a previous transaction that *was* resolved is a fatal
// invariant violation (§7 kind 1) and no partial state is committed — the
// inserted-key list is only applied to mapAddress once the whole scan
// succeeds.
func (mp *Mempool) AddAddressIndex(tx *Transaction, atTime int64) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txHash := tx.Hash()
	var inserted []MempoolAddressDeltaKey
	var deltas []addressDeltaEntry

	for j, in := range tx.Inputs() {
		prevTx, ok := mp.diskReader.ReadDiskTx(in.PreviousOutPoint)
		if !ok {
			continue
		}
		n := in.PreviousOutPoint.Index
		if int(n) >= len(prevTx.TxOut) {
			return fatalIndexErrorf("addAddressIndex: output index %d out of range for tx %s", n, in.PreviousOutPoint.Hash)
		}
		prevOut := prevTx.TxOut[n]
		addrType, addrHash := ClassifyScript(prevOut.PkScript)
		if addrType == AddressTypeNone {
			continue
		}
		key := MempoolAddressDeltaKey{Type: addrType, Hash: addrHash, TxHash: txHash, Index: uint32(j), Spending: 1}
		delta := MempoolAddressDelta{Time: atTime, Amount: -prevOut.Value, PrevHash: in.PreviousOutPoint.Hash, PrevOut: n}
		inserted = append(inserted, key)
		deltas = append(deltas, addressDeltaEntry{key: key, delta: delta})
	}

	for k, out := range tx.Outputs() {
		addrType, addrHash := ClassifyScript(out.PkScript)
		if addrType == AddressTypeNone {
			continue
		}
		key := MempoolAddressDeltaKey{Type: addrType, Hash: addrHash, TxHash: txHash, Index: uint32(k), Spending: 0}
		delta := MempoolAddressDelta{Time: atTime, Amount: out.Value}
		inserted = append(inserted, key)
		deltas = append(deltas, addressDeltaEntry{key: key, delta: delta})
	}

	for _, e := range deltas {
		mp.insertAddressDelta(e.key, e.delta)
	}
	mp.addressInserted[txHash] = inserted
	return nil
}

// AddressQuery names one (address, type) pair to fetch history for.
type AddressQuery struct {
	Hash Hash160
	Type AddressType
}

// GetAddressIndex appends every delta matching any of the requested
// (address, type) pairs to results, in the ordered map's iteration order —
// exposed verbatim to the caller, as §4.4 specifies.
func (mp *Mempool) GetAddressIndex(queries []AddressQuery) []addressDeltaEntry {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var results []addressDeltaEntry
	for _, q := range queries {
		start := MempoolAddressDeltaKey{Type: q.Type, Hash: q.Hash}
		i := mp.addressDeltaInsertIndex(start)
		for ; i < len(mp.addressDeltas); i++ {
			e := mp.addressDeltas[i]
			if e.key.Type != q.Type || e.key.Hash != q.Hash {
				break
			}
			results = append(results, e)
		}
	}
	return results
}

// RemoveAddressIndex deletes every key inserted on behalf of txHash,
// restoring mapAddress to its pre-insertion state (the rollback bijection).
// This runs in O(k) in the number of entries that transaction created.
func (mp *Mempool) RemoveAddressIndex(txHash TxId) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	keys, ok := mp.addressInserted[txHash]
	if !ok {
		return
	}
	for _, k := range keys {
		mp.eraseAddressDelta(k)
	}
	delete(mp.addressInserted, txHash)
}
