package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/spf13/viper"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
)

const defaultTimeout = 15 * time.Second

// wrapper over Neo RPC providing VaultGuard services needed for the commands.
type remoteBlockchain struct {
	rpc *rpcclient.WSClient

	contract util.Uint160
}

// dial opens WebSocket connection to the Neo RPC server configured in
// viper. Contract address is optional.
func dial(ctx context.Context) (*remoteBlockchain, error) {
	timeout := viper.GetDuration(cfgTimeout)

	c, err := rpcclient.NewWS(ctx, viper.GetString(cfgRPC), rpcclient.WSOptions{
		Options: rpcclient.Options{
			DialTimeout:    timeout,
			RequestTimeout: timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	b := &remoteBlockchain{rpc: c}

	if s := viper.GetString(cfgContract); s != "" {
		b.contract, err = parseHash(s)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("invalid contract address: %w", err)
		}
	}

	return b, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

func (x *remoteBlockchain) requireContract() error {
	if x.contract.Equals(util.Uint160{}) {
		return errors.New("missing VaultGuard contract address, use --contract")
	}
	return nil
}

// reader returns VaultGuard reader not bound to any account.
func (x *remoteBlockchain) reader() (*vaultguard.ContractReader, error) {
	if err := x.requireContract(); err != nil {
		return nil, err
	}
	return vaultguard.NewReader(invoker.New(x.rpc, nil), x.contract), nil
}

// actor returns transaction sender for the wallet account configured in viper.
func (x *remoteBlockchain) actor() (*actor.Actor, error) {
	acc, err := openAccount(viper.GetString(cfgWallet), viper.GetString(cfgAddress), viper.GetString(cfgPassword))
	if err != nil {
		return nil, err
	}

	a, err := actor.NewSimple(x.rpc, acc)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return a, nil
}

// vaultGuard returns VaultGuard client signing with the wallet account.
func (x *remoteBlockchain) vaultGuard() (*vaultguard.Contract, *actor.Actor, error) {
	if err := x.requireContract(); err != nil {
		return nil, nil, err
	}

	a, err := x.actor()
	if err != nil {
		return nil, nil, err
	}

	return vaultguard.New(a, x.contract), a, nil
}

func openAccount(path, address, password string) (*wallet.Account, error) {
	if path == "" {
		return nil, errors.New("missing wallet, use --wallet")
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var h util.Uint160
	if address != "" {
		h, err = parseHash(address)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address)
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

// await waits for the transaction to be accepted and checks it succeeded.
func await(a *actor.Actor, txHash util.Uint256, vub uint32, err error) (*result.ApplicationLog, error) {
	res, err := a.Wait(txHash, vub, err)
	if err != nil {
		return nil, err
	}

	if res.VMState != vmstate.Halt {
		return nil, fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}, nil
}
