package main

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/vaultguard-labs/vaultguard-contract/contracts/vaultguard/vaultguardconst"
)

// parseHash accepts Neo address or LE hex-encoded script hash.
func parseHash(s string) (util.Uint160, error) {
	s = strings.TrimSpace(s)

	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("neither address nor script hash: %s", s)
	}

	return h, nil
}

func parseHashList(s string) ([]util.Uint160, error) {
	if s == "" {
		return nil, errors.New("empty list")
	}

	parts := strings.Split(s, ",")
	res := make([]util.Uint160, len(parts))

	for i := range parts {
		h, err := parseHash(parts[i])
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res[i] = h
	}

	return res, nil
}

// parsePayouts parses comma-separated payout percentages in basis points, one
// per severity from low to critical.
func parsePayouts(s string) ([]*big.Int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != vaultguardconst.SeverityCount {
		return nil, fmt.Errorf("expected %d payouts, got %d", vaultguardconst.SeverityCount, len(parts))
	}

	res := make([]*big.Int, len(parts))

	for i := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(parts[i]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("payout #%d: %w", i, err)
		}

		if v < 0 || v > vaultguardconst.BasisPoints {
			return nil, fmt.Errorf("payout #%d: %d is out of [0, %d] range", i, v, vaultguardconst.BasisPoints)
		}

		res[i] = big.NewInt(v)
	}

	return res, nil
}

// parseAmount parses decimal token amount into token fractions.
func parseAmount(s string, decimals int) (*big.Int, error) {
	v, err := fixedn.FromString(s, decimals)
	if err != nil {
		return nil, err
	}

	if v.Sign() <= 0 {
		return nil, errors.New("amount must be positive")
	}

	return v, nil
}

func parseID(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid ID: %s", s)
	}
	return v, nil
}
