package main

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestAddSpentIndexRecordsCorrectSpender is a regression test for the
// source's addSpentIndex predicate bug (see DESIGN.md): indexing must
// happen when the previous transaction *resolves*, not when it fails to.
func TestAddSpentIndexRecordsCorrectSpender(t *testing.T) {
	t.Parallel()

	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	hash := PubKeyHash160(kp.PublicKey)

	reader := newFixtureDiskReader()
	funding := wire.NewMsgTx(wire.TxVersion)
	funding.AddTxOut(wire.NewTxOut(7000, PayToPubKeyHashScript(hash)))
	prevOut := reader.register(funding)

	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(&prevOut, nil, nil))
	tx := NewTransaction(spendTx)

	mp := NewMempool(reader)
	mp.AddUnchecked(tx.Hash(), tx)
	require.NoError(t, mp.AddSpentIndex(tx))

	value, ok := mp.GetSpentIndex(SpentIndexKey{TxHash: prevOut.Hash, Index: prevOut.Index})
	require.True(t, ok, "a resolvable previous output must be recorded as spent")
	require.Equal(t, tx.Hash(), value.SpendTxHash)
	require.Equal(t, uint32(0), value.InputIndex)
	require.Equal(t, MempoolSpentHeightUnconfirmed, value.BlockHeight)
	require.Equal(t, int64(7000), value.Satoshis)
	require.Equal(t, AddressTypeP2PKH, value.AddressType)
	require.Equal(t, hash, value.AddressHash)
}

// TestAddSpentIndexSkipsUnresolvablePrevTx mirrors the address-index "skip,
// don't error" behavior for a previous transaction that cannot be read.
func TestAddSpentIndexSkipsUnresolvablePrevTx(t *testing.T) {
	t.Parallel()

	reader := newFixtureDiskReader()
	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil, nil))
	tx := NewTransaction(spendTx)

	mp := NewMempool(reader)
	mp.AddUnchecked(tx.Hash(), tx)
	require.NoError(t, mp.AddSpentIndex(tx))
	require.Empty(t, mp.spent)
}

// TestAddSpentIndexFatalOnOutOfRangeOutput mirrors the address-index fatal
// case: an out-of-range output index on a resolved previous transaction
// halts the operation.
func TestAddSpentIndexFatalOnOutOfRangeOutput(t *testing.T) {
	t.Parallel()

	reader := newFixtureDiskReader()
	funding := wire.NewMsgTx(wire.TxVersion)
	funding.AddTxOut(wire.NewTxOut(1000, nil))
	fundingHash := funding.TxHash()
	reader.txs[fundingHash] = funding

	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: fundingHash, Index: 9}, nil, nil))
	tx := NewTransaction(spendTx)

	mp := NewMempool(reader)
	mp.AddUnchecked(tx.Hash(), tx)
	err := mp.AddSpentIndex(tx)
	require.Error(t, err)
	require.IsType(t, &FatalIndexError{}, err)
}

// TestSpentIndexRollbackBijection is the rollback-bijection property from
// §8, applied to the spent index.
func TestSpentIndexRollbackBijection(t *testing.T) {
	t.Parallel()

	reader := newFixtureDiskReader()
	funding := wire.NewMsgTx(wire.TxVersion)
	funding.AddTxOut(wire.NewTxOut(1000, nil))
	prevOut := reader.register(funding)

	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(&prevOut, nil, nil))
	tx := NewTransaction(spendTx)

	mp := NewMempool(reader)
	mp.AddUnchecked(tx.Hash(), tx)
	require.NoError(t, mp.AddSpentIndex(tx))
	require.Len(t, mp.spent, 1)

	mp.RemoveSpentIndex(tx.Hash())
	require.Empty(t, mp.spent)
	_, ok := mp.GetSpentIndex(SpentIndexKey{TxHash: prevOut.Hash, Index: prevOut.Index})
	require.False(t, ok)
}
