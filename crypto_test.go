package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestImportPrivateKeyRoundTrip checks that exporting a key pair to hex and
// importing it back yields the same address, and that the address still
// validates under ValidateAddress.
func TestImportPrivateKeyRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	require.True(t, ValidateAddress(kp.Address))

	imported, err := ImportPrivateKey(kp.GetPrivateKeyHex())
	require.NoError(t, err)
	require.Equal(t, kp.Address, imported.Address)
	require.Equal(t, kp.GetPublicKeyHex(), imported.GetPublicKeyHex())
}

// TestValidateAddressRejectsMalformed checks the DT-prefix/base58-length
// checks reject obviously wrong inputs.
func TestValidateAddressRejectsMalformed(t *testing.T) {
	t.Parallel()

	require.False(t, ValidateAddress(""))
	require.False(t, ValidateAddress("DT"))
	require.False(t, ValidateAddress("XXnotadtaddress"))
}
