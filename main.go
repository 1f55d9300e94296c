package main

import (
	"fmt"
	stdlog "log"

	"github.com/btcsuite/btcd/wire"
)

func main() {
	fmt.Println("starting tpaycore mempool demo...")

	config := DefaultMempoolConfig()
	SetLogLevel(config.LogLevel)

	store, err := OpenLevelDBAddressStore(&config.Store)
	if err != nil {
		stdlog.Fatal("failed to open address store:", err)
	}
	defer store.Close()

	kp, err := GenerateKeyPair()
	if err != nil {
		stdlog.Fatal("failed to generate key pair:", err)
	}
	fmt.Printf("wallet address: %s\n", kp.Address)
	fmt.Printf("wallet public key (hex): %s\n", kp.GetPublicKeyHex())
	fmt.Printf("wallet private key (hex): %s\n", kp.GetPrivateKeyHex())

	imported, err := ImportPrivateKey(kp.GetPrivateKeyHex())
	if err != nil {
		stdlog.Fatal("failed to import private key:", err)
	}
	if !ValidateAddress(imported.Address) || imported.Address != kp.Address {
		stdlog.Fatal("imported key pair does not round-trip to the original address")
	}

	fundingTx := wire.NewMsgTx(wire.TxVersion)
	fundingTx.AddTxOut(wire.NewTxOut(5_000_000, PayToPubKeyHashScript(PubKeyHash160(kp.PublicKey))))
	if err := store.PutTxForFixture(fundingTx); err != nil {
		stdlog.Fatal("failed to register funding tx fixture:", err)
	}
	fundingHash := fundingTx.TxHash()

	spendTx := wire.NewMsgTx(wire.TxVersion)
	spendTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&fundingHash, 0), nil, nil))
	spendTx.AddTxOut(wire.NewTxOut(4_990_000, PayToPubKeyHashScript(PubKeyHash160(kp.PublicKey))))
	tx := NewTransaction(spendTx)

	mp := NewMempool(store)
	mp.AddUnchecked(tx.Hash(), tx)
	if err := mp.AddAddressIndex(tx, 0); err != nil {
		stdlog.Fatal("failed to index tx by address:", err)
	}
	if err := mp.AddSpentIndex(tx); err != nil {
		stdlog.Fatal("failed to index tx as spender:", err)
	}

	fmt.Printf("mempool size: %d, revision: %d\n", mp.Size(), mp.GetTransactionsUpdated())
	fmt.Println("tpaycore mempool demo ready")
}
