package main

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcutil"
)

// =============================================================================
// SCRIPT -> ADDRESS CLASSIFIER
// =============================================================================
//
// ClassifyScript is the pure function that every indexing path (mempool
// address index, mempool spent index, and — in a full node — the persistent
// address index) must funnel through, so that classifying the same script
// from a mempool-resident output and from a disk-resident previous output
// gives identical results.

// AddressType is the wire-stable first byte of every persistent address key.
type AddressType uint8

const (
	AddressTypeNone  AddressType = 0
	AddressTypeP2PKH AddressType = 1
	AddressTypeP2SH  AddressType = 2
)

var zeroHash160 Hash160

// ClassifyScript recognizes P2SH, P2PKH, and P2PK output scripts and
// extracts the 20-byte address hash each one commits to. Any other script
// shape yields (AddressTypeNone, zero), matching §4.2 exactly: unrecognized
// scripts are not indexed, not an error.
func ClassifyScript(script []byte) (AddressType, Hash160) {
	if isP2SH(script) {
		var h Hash160
		copy(h[:], script[2:22])
		return AddressTypeP2SH, h
	}
	if isP2PKH(script) {
		var h Hash160
		copy(h[:], script[3:23])
		return AddressTypeP2PKH, h
	}
	if isP2PK(script) {
		pubKey := script[1 : len(script)-1]
		var h Hash160
		copy(h[:], btcutil.Hash160(pubKey))
		return AddressTypeP2PKH, h
	}
	return AddressTypeNone, zeroHash160
}

// isP2SH matches OP_HASH160 <20-byte push> OP_EQUAL.
func isP2SH(script []byte) bool {
	return len(script) == 23 &&
		script[0] == txscript.OP_HASH160 &&
		script[1] == txscript.OP_DATA_20 &&
		script[22] == txscript.OP_EQUAL
}

// isP2PKH matches OP_DUP OP_HASH160 <20-byte push> OP_EQUALVERIFY OP_CHECKSIG.
func isP2PKH(script []byte) bool {
	return len(script) == 25 &&
		script[0] == txscript.OP_DUP &&
		script[1] == txscript.OP_HASH160 &&
		script[2] == txscript.OP_DATA_20 &&
		script[23] == txscript.OP_EQUALVERIFY &&
		script[24] == txscript.OP_CHECKSIG
}

// isP2PK matches <push of a compressed or uncompressed pubkey> OP_CHECKSIG.
func isP2PK(script []byte) bool {
	if len(script) < 2 || script[len(script)-1] != txscript.OP_CHECKSIG {
		return false
	}
	switch script[0] {
	case txscript.OP_DATA_33:
		return len(script) == 35 // 1 opcode + 33-byte compressed key + OP_CHECKSIG
	case txscript.OP_DATA_65:
		return len(script) == 67 // 1 opcode + 65-byte uncompressed key + OP_CHECKSIG
	default:
		return false
	}
}
