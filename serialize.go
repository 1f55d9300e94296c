package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// =============================================================================
// SERIALIZATION PRIMITIVES
// =============================================================================
//
// Fixed-width readers/writers for the byte layouts the persistent address
// index and in-memory sidecar indices rely on. Heights and tx-indices in
// CAddressIndexKey are written big-endian on purpose so that byte-lexical
// key order equals height-ascending order once the keys land in an ordered
// store; everything else in the schema is little-endian, matching the wire
// format of TxId/Hash160 the rest of the btcsuite stack already uses.

// Hash160 is a 20-byte RIPEMD160(SHA256(.)) digest, used as the address
// payload for all three recognized script templates.
type Hash160 [20]byte

// String renders the hash as hex, most-significant byte first.
func (h Hash160) String() string {
	return fmt.Sprintf("%x", h[:])
}

// TxId is the 32-byte transaction identifier. It is a rename of
// chainhash.Hash rather than a new type, so mempool code interoperates
// directly with anything a caller builds against wire.MsgTx.
type TxId = chainhash.Hash

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeUint32LE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32LE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// writeUint32BE writes a big-endian uint32. Used exclusively for the
// AddressIndexKey height and tx-index fields so that the serialized key
// sorts numerically ascending.
func writeUint32BE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32BE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeInt32BE(w io.Writer, v int32) error {
	return writeUint32BE(w, uint32(v))
}

func readInt32BE(r io.Reader) (int32, error) {
	v, err := readUint32BE(r)
	return int32(v), err
}

func writeHash160(w io.Writer, h Hash160) error {
	_, err := w.Write(h[:])
	return err
}

func readHash160(r io.Reader) (Hash160, error) {
	var h Hash160
	_, err := io.ReadFull(r, h[:])
	return h, err
}

func writeTxId(w io.Writer, id TxId) error {
	_, err := w.Write(id[:])
	return err
}

func readTxId(r io.Reader) (TxId, error) {
	var id TxId
	_, err := io.ReadFull(r, id[:])
	return id, err
}

// boolByte serializes a bool as the single byte 0 or 1, matching the
// source's `char f = spending` cast.
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// putInt64LE/getInt64LE and putInt32LE/getInt32LE are little-endian helpers
// for the values stored alongside AddressUnspentKey in the persistent
// store — ordinary payload fields, unlike the big-endian key fields above.
func putInt64LE(b []byte, v int64) {
	binary.LittleEndian.PutUint64(b, uint64(v))
}

func getInt64LE(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func putInt32LE(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

func getInt32LE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}
