package main

// =============================================================================
// MEMPOOL SPENT INDEX (in-memory sidecar)
// =============================================================================
//
// mapSpent answers "which transaction spent this outpoint" without
// inverting the UTXO set. It shares the same rollback discipline as the
// address index: every key inserted on behalf of one transaction is
// recorded so removal is O(k) in that transaction's own input count.
//
// The source's addSpentIndex enters its indexing branch when ReadDiskTx
// *fails* (`if (!ReadDiskTx(...))`), the opposite of addAddressIndex's
// predicate, and then reads off the (uninitialized) result of the failed
// read. That is almost certainly a bug, not a deliberate "index only
// unresolvable spends" design — addAddressIndex needs the previous output
// precisely to classify it, and so does addSpentIndex. This implementation
// mirrors addAddressIndex's shape instead: index when the read succeeds.

// AddSpentIndex classifies every input's previous output and records who
// spent it, at mempool time (BlockHeight == -1). Inputs whose previous
// transaction cannot be resolved from disk are skipped, the same as
// AddAddressIndex.
func (mp *Mempool) AddSpentIndex(tx *Transaction) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txHash := tx.Hash()
	var inserted []SpentIndexKey

	for j, in := range tx.Inputs() {
		prevTx, ok := mp.diskReader.ReadDiskTx(in.PreviousOutPoint)
		if !ok {
			continue
		}
		n := in.PreviousOutPoint.Index
		if int(n) >= len(prevTx.TxOut) {
			return fatalIndexErrorf("addSpentIndex: output index %d out of range for tx %s", n, in.PreviousOutPoint.Hash)
		}
		prevOut := prevTx.TxOut[n]
		addrType, addrHash := ClassifyScript(prevOut.PkScript)

		key := SpentIndexKey{TxHash: in.PreviousOutPoint.Hash, Index: n}
		value := SpentIndexValue{
			SpendTxHash: txHash,
			InputIndex:  uint32(j),
			BlockHeight: MempoolSpentHeightUnconfirmed,
			Satoshis:    prevOut.Value,
			AddressType: addrType,
			AddressHash: addrHash,
		}
		mp.spent[key] = value
		inserted = append(inserted, key)
	}

	mp.spentInserted[txHash] = inserted
	return nil
}

// GetSpentIndex performs a point lookup; ok is false if the outpoint isn't
// recorded as spent in the mempool.
func (mp *Mempool) GetSpentIndex(key SpentIndexKey) (SpentIndexValue, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	v, ok := mp.spent[key]
	return v, ok
}

// RemoveSpentIndex deletes every key inserted on behalf of txHash.
func (mp *Mempool) RemoveSpentIndex(txHash TxId) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	keys, ok := mp.spentInserted[txHash]
	if !ok {
		return
	}
	for _, k := range keys {
		delete(mp.spent, k)
	}
	delete(mp.spentInserted, txHash)
}
