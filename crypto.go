package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/base58"
)

// =============================================================================
// CRYPTOGRAPHY & ADDRESS GENERATION
// =============================================================================
//
// Used by tests to build realistic P2PKH/P2SH/P2PK fixtures that exercise
// the script classifier (script.go) the same way a real wallet's output
// scripts would.

// KeyPair represents a public/private key pair for blockchain operations
type KeyPair struct {
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
	Address    string
}

// GenerateKeyPair creates a new secp256k1 key pair and derives the DT address
func GenerateKeyPair() (*KeyPair, error) {
	// Updated method call for modern btcec library
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %v", err)
	}

	publicKey := privateKey.PubKey()
	address := GenerateAddress(publicKey)

	return &KeyPair{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		Address:    address,
	}, nil
}

// GenerateAddress creates a DT-prefixed address from a public key.
// Format: "DT" + base58(Hash160(compressed_pubkey)).
func GenerateAddress(pubKey *btcec.PublicKey) string {
	payload := btcutil.Hash160(pubKey.SerializeCompressed())
	return "DT" + base58.Encode(payload)
}

// PubKeyHash160 returns the Hash160 of a compressed public key — the
// address payload a P2PKH output script commits to.
func PubKeyHash160(pubKey *btcec.PublicKey) Hash160 {
	var h Hash160
	copy(h[:], btcutil.Hash160(pubKey.SerializeCompressed()))
	return h
}

// PayToPubKeyHashScript builds a standard P2PKH output script for the given
// 20-byte address hash: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func PayToPubKeyHashScript(hash Hash160) []byte {
	return []byte{
		txscript.OP_DUP, txscript.OP_HASH160, txscript.OP_DATA_20,
		hash[0], hash[1], hash[2], hash[3], hash[4],
		hash[5], hash[6], hash[7], hash[8], hash[9],
		hash[10], hash[11], hash[12], hash[13], hash[14],
		hash[15], hash[16], hash[17], hash[18], hash[19],
		txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG,
	}
}

// PayToScriptHashScript builds a standard P2SH output script for the given
// 20-byte redeem-script hash: OP_HASH160 <20 bytes> OP_EQUAL.
func PayToScriptHashScript(hash Hash160) []byte {
	out := make([]byte, 0, 23)
	out = append(out, txscript.OP_HASH160, txscript.OP_DATA_20)
	out = append(out, hash[:]...)
	out = append(out, txscript.OP_EQUAL)
	return out
}

// PayToPubKeyScript builds a standard pay-to-pubkey output script for a
// compressed public key: <push 33 bytes> OP_CHECKSIG.
func PayToPubKeyScript(pubKey *btcec.PublicKey) []byte {
	compressed := pubKey.SerializeCompressed()
	out := make([]byte, 0, len(compressed)+2)
	out = append(out, txscript.OP_DATA_33)
	out = append(out, compressed...)
	out = append(out, txscript.OP_CHECKSIG)
	return out
}

// GetPrivateKeyHex returns the private key as a hex string for wallet export
func (kp *KeyPair) GetPrivateKeyHex() string {
	privateKeyBytes := kp.PrivateKey.Serialize()
	return hex.EncodeToString(privateKeyBytes)
}

// GetPublicKeyHex returns the public key as a hex string
func (kp *KeyPair) GetPublicKeyHex() string {
	publicKeyBytes := kp.PublicKey.SerializeCompressed()
	return hex.EncodeToString(publicKeyBytes)
}

// ImportPrivateKey imports a private key from hex string and recreates the KeyPair
func ImportPrivateKey(privateKeyHex string) (*KeyPair, error) {
	privateKeyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %v", err)
	}

	// Fixed: Updated method for modern btcec library (handle both return values)
	privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
	publicKey := privateKey.PubKey()
	address := GenerateAddress(publicKey)

	return &KeyPair{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
		Address:    address,
	}, nil
}

// ValidateAddress checks if an address has valid DT prefix and format
func ValidateAddress(address string) bool {
	if len(address) < 3 || address[:2] != "DT" {
		return false
	}

	base58Part := address[2:]
	decoded := base58.Decode(base58Part)
	return len(decoded) == 20
}

