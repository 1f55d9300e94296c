package main

import (
	"bytes"
	"fmt"
)

// =============================================================================
// PERSISTENT ADDRESS KEY SCHEMAS
// =============================================================================
//
// These four shapes are format commitments: downstream explorers/RPC parse
// these bytes, so the serialized lengths (57/66/21/25) and the big-endian
// placement of height/tx-index in AddressIndexKey are contractual. Every
// Serialize returns exactly the documented length; Deserialize refuses
// shorter inputs.

// AddressUnspentKey identifies one currently-unspent output of an address,
// as tracked by the persistent store. Serializes to 57 bytes.
type AddressUnspentKey struct {
	Type   AddressType
	Hash   Hash160
	TxHash TxId
	Index  uint32
}

const AddressUnspentKeySize = 57

func (k AddressUnspentKey) Serialize() []byte {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Type))
	writeHash160(&buf, k.Hash)
	writeTxId(&buf, k.TxHash)
	writeUint32LE(&buf, k.Index)
	out := buf.Bytes()
	if len(out) != AddressUnspentKeySize {
		panic(fmt.Sprintf("AddressUnspentKey: wrote %d bytes, want %d", len(out), AddressUnspentKeySize))
	}
	return out
}

func DeserializeAddressUnspentKey(b []byte) (AddressUnspentKey, error) {
	if len(b) != AddressUnspentKeySize {
		return AddressUnspentKey{}, fmt.Errorf("AddressUnspentKey: got %d bytes, want %d", len(b), AddressUnspentKeySize)
	}
	r := bytes.NewReader(b)
	typ, _ := readUint8(r)
	hash, _ := readHash160(r)
	txHash, _ := readTxId(r)
	index, _ := readUint32LE(r)
	return AddressUnspentKey{Type: AddressType(typ), Hash: hash, TxHash: txHash, Index: index}, nil
}

// AddressUnspentValue is the persistent-store payload for an unspent output.
// Satoshis == -1 is the null/tombstone sentinel.
type AddressUnspentValue struct {
	Satoshis    int64
	Script      []byte
	BlockHeight int32
}

func (v AddressUnspentValue) IsNull() bool { return v.Satoshis == -1 }

func NullAddressUnspentValue() AddressUnspentValue {
	return AddressUnspentValue{Satoshis: -1}
}

// AddressIndexKey orders by (type, address, blockHeight, txIndex, txHash,
// index, spending). Heights and tx-index are written big-endian so
// byte-lexicographic key order equals height-ascending, then
// tx-index-ascending, order — this is the whole point of the schema: range
// scans over an ordered store return an address's history already sorted.
// Serializes to 66 bytes.
type AddressIndexKey struct {
	Type        AddressType
	Hash        Hash160
	BlockHeight int32
	TxIndex     uint32
	TxHash      TxId
	Index       uint32
	Spending    bool
}

const AddressIndexKeySize = 66

func (k AddressIndexKey) Serialize() []byte {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Type))
	writeHash160(&buf, k.Hash)
	writeInt32BE(&buf, k.BlockHeight)
	writeUint32BE(&buf, k.TxIndex)
	writeTxId(&buf, k.TxHash)
	writeUint32LE(&buf, k.Index)
	writeUint8(&buf, boolByte(k.Spending))
	out := buf.Bytes()
	if len(out) != AddressIndexKeySize {
		panic(fmt.Sprintf("AddressIndexKey: wrote %d bytes, want %d", len(out), AddressIndexKeySize))
	}
	return out
}

func DeserializeAddressIndexKey(b []byte) (AddressIndexKey, error) {
	if len(b) != AddressIndexKeySize {
		return AddressIndexKey{}, fmt.Errorf("AddressIndexKey: got %d bytes, want %d", len(b), AddressIndexKeySize)
	}
	r := bytes.NewReader(b)
	typ, _ := readUint8(r)
	hash, _ := readHash160(r)
	height, _ := readInt32BE(r)
	txIndex, _ := readUint32BE(r)
	txHash, _ := readTxId(r)
	index, _ := readUint32LE(r)
	spendingByte, _ := readUint8(r)
	return AddressIndexKey{
		Type:        AddressType(typ),
		Hash:        hash,
		BlockHeight: height,
		TxIndex:     txIndex,
		TxHash:      txHash,
		Index:       index,
		Spending:    spendingByte != 0,
	}, nil
}

// AddressIndexIteratorKey is the (type, address) prefix for a full-history
// scan of one address. Serializes to 21 bytes.
type AddressIndexIteratorKey struct {
	Type AddressType
	Hash Hash160
}

const AddressIndexIteratorKeySize = 21

func (k AddressIndexIteratorKey) Serialize() []byte {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Type))
	writeHash160(&buf, k.Hash)
	out := buf.Bytes()
	if len(out) != AddressIndexIteratorKeySize {
		panic(fmt.Sprintf("AddressIndexIteratorKey: wrote %d bytes, want %d", len(out), AddressIndexIteratorKeySize))
	}
	return out
}

// AddressIndexIteratorHeightKey is the (type, address, height) prefix for a
// height-bounded scan. Serializes to 25 bytes.
type AddressIndexIteratorHeightKey struct {
	Type        AddressType
	Hash        Hash160
	BlockHeight int32
}

const AddressIndexIteratorHeightKeySize = 25

func (k AddressIndexIteratorHeightKey) Serialize() []byte {
	var buf bytes.Buffer
	writeUint8(&buf, uint8(k.Type))
	writeHash160(&buf, k.Hash)
	writeInt32BE(&buf, k.BlockHeight)
	out := buf.Bytes()
	if len(out) != AddressIndexIteratorHeightKeySize {
		panic(fmt.Sprintf("AddressIndexIteratorHeightKey: wrote %d bytes, want %d", len(out), AddressIndexIteratorHeightKeySize))
	}
	return out
}
