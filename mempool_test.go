package main

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func newOutpointSpendingTx(prev wire.OutPoint, numOutputs int) *Transaction {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(&prev, nil, nil))
	for i := 0; i < numOutputs; i++ {
		msgTx.AddTxOut(wire.NewTxOut(1000, nil))
	}
	return NewTransaction(msgTx)
}

func newAnonTx(keyImage []byte, numOutputs int) *Transaction {
	msgTx := wire.NewMsgTx(AnonTxnVersion)
	in := wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, anonInputIndex), keyImage, nil)
	msgTx.AddTxIn(in)
	for i := 0; i < numOutputs; i++ {
		msgTx.AddTxOut(wire.NewTxOut(1000, nil))
	}
	return NewTransaction(msgTx)
}

// TestAddThenRemove is scenario 1 from §8.
func TestAddThenRemove(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: 0}
	a := newOutpointSpendingTx(x, 2)
	aHash := a.Hash()

	startCounter := mp.GetTransactionsUpdated()
	mp.AddUnchecked(aHash, a)
	require.Equal(t, 1, mp.Size())
	spender, ok := mp.nextTx[x]
	require.True(t, ok)
	require.Equal(t, aHash, spender.TxID)
	require.Equal(t, uint32(0), spender.Index)

	mp.Remove(a, false)
	require.Equal(t, 0, mp.Size())
	_, ok = mp.nextTx[x]
	require.False(t, ok)
	require.Equal(t, startCounter+2, mp.GetTransactionsUpdated())
}

// TestRecursiveRemove is scenario 2 from §8.
func TestRecursiveRemove(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x02}, Index: 0}
	a := newOutpointSpendingTx(x, 1)
	aHash := a.Hash()
	mp.AddUnchecked(aHash, a)

	bOutpoint := wire.OutPoint{Hash: aHash, Index: 0}
	b := newOutpointSpendingTx(bOutpoint, 1)
	bHash := b.Hash()
	mp.AddUnchecked(bHash, b)

	require.Equal(t, 2, mp.Size())
	mp.Remove(a, true)
	require.Equal(t, 0, mp.Size(), "recursive remove must leave no descendant of A")
}

// TestNonRecursiveRemoveLeavesDanglingChild is the non-recursive half of
// scenario 2: removing A without recursion leaves B present with a dangling
// input, since no invariant requires cleanup of that case.
func TestNonRecursiveRemoveLeavesDanglingChild(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x03}, Index: 0}
	a := newOutpointSpendingTx(x, 1)
	aHash := a.Hash()
	mp.AddUnchecked(aHash, a)

	b := newOutpointSpendingTx(wire.OutPoint{Hash: aHash, Index: 0}, 1)
	bHash := b.Hash()
	mp.AddUnchecked(bHash, b)

	mp.Remove(a, false)
	require.Equal(t, 1, mp.Size())
	require.True(t, mp.Exists(bHash))
	require.False(t, mp.Exists(aHash))
}

// TestConflictReplacement is scenario 3 from §8: RemoveConflicts(C) removes
// B (which spends the same outpoint) but never adds or removes C itself,
// even when C is already present in the pool under the same outpoint entry.
func TestConflictReplacement(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x04}, Index: 0}

	b := newOutpointSpendingTx(x, 1)
	bHash := b.Hash()
	mp.AddUnchecked(bHash, b)

	c := newOutpointSpendingTx(x, 2) // distinct tx (different output count) spending the same outpoint
	mp.RemoveConflicts(c)

	require.False(t, mp.Exists(bHash), "B must be evicted as a conflict")
	require.Equal(t, 0, mp.Size(), "RemoveConflicts never adds C")
}

// TestConflictReplacementIsNotSelfRemoving guards against a transaction
// that already occupies mapNextTx for its own input removing itself when
// RemoveConflicts is called on it again (idempotent resubmission).
func TestConflictReplacementIsNotSelfRemoving(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x05}, Index: 0}
	c := newOutpointSpendingTx(x, 1)
	cHash := c.Hash()
	mp.AddUnchecked(cHash, c)

	mp.RemoveConflicts(c)
	require.True(t, mp.Exists(cHash), "a transaction must never remove itself as its own conflict")
}

// TestAnonKeyImageRemoval is scenario 6 from §8.
func TestAnonKeyImageRemoval(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	keyImage := make([]byte, keyImageSize)
	for i := range keyImage {
		keyImage[i] = byte(i + 1)
	}
	tx := newAnonTx(keyImage, 1)
	require.True(t, tx.IsAnon())

	mp.AddUnchecked(tx.Hash(), tx)
	mp.InsertKeyImage(keyImage)
	require.True(t, mp.LookupKeyImage(keyImage))

	mp.Remove(tx, false)
	require.False(t, mp.LookupKeyImage(keyImage), "key-image must be freed once its transaction leaves the pool")
}

// TestAnonRemoveViaRemoveOneLocked checks the key-image is also cleaned up
// when a transaction is removed as part of a recursive-remove worklist, not
// only via the single-transaction path.
func TestAnonRemoveViaRecursiveRemove(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	keyImage := make([]byte, keyImageSize)
	keyImage[0] = 0xFF
	parent := newAnonTx(keyImage, 1)
	mp.AddUnchecked(parent.Hash(), parent)
	mp.InsertKeyImage(keyImage)

	child := newOutpointSpendingTx(wire.OutPoint{Hash: parent.Hash(), Index: 0}, 1)
	mp.AddUnchecked(child.Hash(), child)

	mp.Remove(parent, true)
	require.False(t, mp.LookupKeyImage(keyImage))
	require.Equal(t, 0, mp.Size())
}

// TestSpenderUniqueness is the spender-uniqueness property from §8: inserting
// two transactions that spend the same outpoint must leave mapNextTx naming
// only the most recently added one, never both.
func TestSpenderUniqueness(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x06}, Index: 0}
	a := newOutpointSpendingTx(x, 1)
	b := newOutpointSpendingTx(x, 2)

	mp.AddUnchecked(a.Hash(), a)
	mp.AddUnchecked(b.Hash(), b)

	spender, ok := mp.nextTx[x]
	require.True(t, ok)
	require.Equal(t, b.Hash(), spender.TxID, "the most recent add_unchecked must own the outpoint")
}

// TestTransactionsUpdatedMonotonic is the counter-monotonicity property from
// §8 across a mixed sequence of operations.
func TestTransactionsUpdatedMonotonic(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	x := wire.OutPoint{Hash: chainhash.Hash{0x07}, Index: 0}
	a := newOutpointSpendingTx(x, 1)

	last := mp.GetTransactionsUpdated()
	ops := []func(){
		func() { mp.AddUnchecked(a.Hash(), a) },
		func() { mp.AddTransactionsUpdated(5) },
		func() { mp.Remove(a, false) },
		func() { mp.Clear() },
	}
	for _, op := range ops {
		op()
		next := mp.GetTransactionsUpdated()
		require.GreaterOrEqual(t, next, last)
		last = next
	}
}

// TestLookupAndExists exercises the plain accessors against an empty and a
// populated pool.
func TestLookupAndExists(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	a := newOutpointSpendingTx(wire.OutPoint{Hash: chainhash.Hash{0x08}, Index: 0}, 1)

	require.False(t, mp.Exists(a.Hash()))
	_, ok := mp.Lookup(a.Hash())
	require.False(t, ok)

	mp.AddUnchecked(a.Hash(), a)
	require.True(t, mp.Exists(a.Hash()))
	got, ok := mp.Lookup(a.Hash())
	require.True(t, ok)
	require.Same(t, a, got)
}

// TestQueryHashes checks every inserted id is present exactly once,
// regardless of order.
func TestQueryHashes(t *testing.T) {
	t.Parallel()

	mp := NewMempool(nil)
	a := newOutpointSpendingTx(wire.OutPoint{Hash: chainhash.Hash{0x09}, Index: 0}, 1)
	b := newOutpointSpendingTx(wire.OutPoint{Hash: chainhash.Hash{0x0a}, Index: 0}, 1)
	mp.AddUnchecked(a.Hash(), a)
	mp.AddUnchecked(b.Hash(), b)

	hashes := mp.QueryHashes()
	require.ElementsMatch(t, []TxId{a.Hash(), b.Hash()}, hashes)
}
