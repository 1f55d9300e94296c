package main

import (
	"sync"

	"github.com/btcsuite/btcd/wire"
)

// =============================================================================
// MEMPOOL CORE
// =============================================================================
//
// Mempool stores valid-according-to-the-current-best-chain transactions that
// may be included in the next block. Every public operation — including the
// read-only ones — takes the single coarse mempool lock; there is no
// lock-free fast path (§5 of the design doc). Recursive removal is
// implemented as a worklist loop rather than reentrant recursion, since
// sync.Mutex is not reentrant in Go.

// InPoint is a back-reference to the transaction (and input index) that
// spends a given outpoint. It names the spender by id, not by a borrowed
// pointer into the transaction map, avoiding the iterator-invalidation
// hazard a raw pointer would carry across map mutation.
type InPoint struct {
	TxID  TxId
	Index uint32
}

// Mempool is the concurrency-safe in-memory graph of pending transactions.
type Mempool struct {
	mu sync.Mutex

	transactionsUpdated uint32

	txs       map[TxId]*Transaction
	nextTx    map[wire.OutPoint]InPoint
	keyImages map[string]struct{} // key-image bytes, as a string, for set membership

	addressDeltas   []addressDeltaEntry
	addressInserted map[TxId][]MempoolAddressDeltaKey
	spent           map[SpentIndexKey]SpentIndexValue
	spentInserted   map[TxId][]SpentIndexKey

	diskReader DiskTxReader
}

type addressDeltaEntry struct {
	key   MempoolAddressDeltaKey
	delta MempoolAddressDelta
}

// NewMempool creates an empty mempool. diskReader resolves the previous
// outputs of mempool inputs when building the address/spent sidecar
// indices; it may be nil if the caller never calls AddAddressIndex or
// AddSpentIndex.
func NewMempool(diskReader DiskTxReader) *Mempool {
	return &Mempool{
		txs:             make(map[TxId]*Transaction),
		nextTx:          make(map[wire.OutPoint]InPoint),
		keyImages:       make(map[string]struct{}),
		addressInserted: make(map[TxId][]MempoolAddressDeltaKey),
		spent:           make(map[SpentIndexKey]SpentIndexValue),
		spentInserted:   make(map[TxId][]SpentIndexKey),
		diskReader:      diskReader,
	}
}

// AddUnchecked inserts tx unconditionally: callers must have already
// established that tx does not conflict with anything in the pool. For
// every input it records prevout -> (hash, i) in the outpoint-to-spender
// map, so the §3 invariants hold again by the time it returns.
func (mp *Mempool) AddUnchecked(hash TxId, tx *Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.txs[hash] = tx
	for i, in := range tx.Inputs() {
		mp.nextTx[in.PreviousOutPoint] = InPoint{TxID: hash, Index: uint32(i)}
	}
	mp.transactionsUpdated++
	log.Debugf("added %s to mempool (%d inputs, %d outputs)", hash, len(tx.Inputs()), len(tx.Outputs()))
}

// Remove drops tx from the pool. If recursive, every descendant reachable
// through the outpoint-to-spender graph is removed first. A no-op if tx is
// not present. The whole transitive closure runs under one lock
// acquisition via an explicit worklist, never through recursive locking.
func (mp *Mempool) Remove(tx *Transaction, recursive bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.removeLocked(tx, recursive)
}

func (mp *Mempool) removeLocked(tx *Transaction, recursive bool) {
	hash := tx.Hash()
	if _, ok := mp.txs[hash]; !ok {
		return
	}

	// Worklist of transactions to remove, discovered breadth-first by
	// walking mapNextTx from tx's own outputs. The graph is acyclic by
	// construction (a spender is inserted only after its parent outpoint
	// already exists), so this terminates; processing it in reverse
	// discovery order removes children before parents.
	worklist := []*Transaction{tx}
	seen := map[TxId]bool{hash: true}

	if recursive {
		for i := 0; i < len(worklist); i++ {
			curHash := worklist[i].Hash()
			for outIdx := range worklist[i].Outputs() {
				spender, ok := mp.nextTx[wire.OutPoint{Hash: curHash, Index: uint32(outIdx)}]
				if !ok || seen[spender.TxID] {
					continue
				}
				spenderTx, ok := mp.txs[spender.TxID]
				if !ok {
					continue
				}
				seen[spender.TxID] = true
				worklist = append(worklist, spenderTx)
			}
		}
	}

	for i := len(worklist) - 1; i >= 0; i-- {
		mp.removeOneLocked(worklist[i])
	}
}

// removeOneLocked removes exactly one transaction (no recursion): erases
// its mapNextTx entries, erases it from the transaction map, and for the
// anon version erases every key-image its inputs carried.
func (mp *Mempool) removeOneLocked(tx *Transaction) {
	hash := tx.Hash()
	if _, ok := mp.txs[hash]; !ok {
		return
	}

	for _, in := range tx.Inputs() {
		delete(mp.nextTx, in.PreviousOutPoint)
	}
	delete(mp.txs, hash)

	if tx.IsAnon() {
		for _, in := range tx.Inputs() {
			if !IsAnonInput(in) {
				continue
			}
			if image, ok := ExtractKeyImage(in); ok {
				delete(mp.keyImages, string(image))
			}
		}
	}

	mp.transactionsUpdated++
	log.Debugf("removed %s from mempool", hash)
}

// RemoveConflicts removes, recursively, every mempool transaction that
// spends an input also spent by tx — used when a block confirms tx. tx
// itself is never removed by this call, even if mapNextTx already lists it
// as the current spender of one of its own inputs (idempotent
// resubmission).
func (mp *Mempool) RemoveConflicts(tx *Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	hash := tx.Hash()
	for _, in := range tx.Inputs() {
		spender, ok := mp.nextTx[in.PreviousOutPoint]
		if !ok || spender.TxID == hash {
			continue
		}
		conflict, ok := mp.txs[spender.TxID]
		if !ok {
			continue
		}
		mp.removeLocked(conflict, true)
	}
}

// Clear drops every transaction, outpoint mapping, and key-image from the
// pool. The address/spent sidecar indices are maintained independently by
// their own remove paths and are untouched here.
func (mp *Mempool) Clear() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.txs = make(map[TxId]*Transaction)
	mp.nextTx = make(map[wire.OutPoint]InPoint)
	mp.keyImages = make(map[string]struct{})
	mp.transactionsUpdated++
}

// QueryHashes returns every transaction id currently in the pool, in
// unspecified order.
func (mp *Mempool) QueryHashes() []TxId {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	out := make([]TxId, 0, len(mp.txs))
	for h := range mp.txs {
		out = append(out, h)
	}
	return out
}

// Lookup returns the transaction stored under hash, if present.
func (mp *Mempool) Lookup(hash TxId) (*Transaction, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	tx, ok := mp.txs[hash]
	return tx, ok
}

// Exists reports whether hash is currently in the pool.
func (mp *Mempool) Exists(hash TxId) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	_, ok := mp.txs[hash]
	return ok
}

// Size returns the number of transactions currently in the pool.
func (mp *Mempool) Size() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.txs)
}

// GetTransactionsUpdated returns the monotonic revision counter, bumped on
// every AddUnchecked/Remove/Clear/AddTransactionsUpdated call. Pollers
// (block-template builder, wallet) use it to detect change without
// diffing the pool themselves.
func (mp *Mempool) GetTransactionsUpdated() uint32 {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return mp.transactionsUpdated
}

// AddTransactionsUpdated bumps the revision counter by n directly, for
// callers (e.g. reorg handling) that change mempool-adjacent state without
// going through AddUnchecked/Remove.
func (mp *Mempool) AddTransactionsUpdated(n uint32) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.transactionsUpdated += n
}

// InsertKeyImage records image as spent by an anon transaction in the pool.
func (mp *Mempool) InsertKeyImage(image []byte) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.keyImages[string(image)] = struct{}{}
}

// LookupKeyImage reports whether image is already recorded as spent.
func (mp *Mempool) LookupKeyImage(image []byte) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	_, ok := mp.keyImages[string(image)]
	return ok
}
