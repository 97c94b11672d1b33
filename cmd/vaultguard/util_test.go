package main

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	for _, s := range []string{
		address.Uint160ToString(h),
		h.StringLE(),
		"0x" + h.StringLE(),
		" " + h.StringLE() + " ",
	} {
		res, err := parseHash(s)
		require.NoError(t, err, s)
		require.Equal(t, h, res, s)
	}

	_, err := parseHash("not a hash")
	require.Error(t, err)

	list, err := parseHashList(address.Uint160ToString(h) + "," + h.StringLE())
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{h, h}, list)

	_, err = parseHashList("")
	require.Error(t, err)

	_, err = parseHashList(h.StringLE() + ",bad")
	require.Error(t, err)
}

func TestParsePayouts(t *testing.T) {
	res, err := parsePayouts("1000, 2500,5000,10000")
	require.NoError(t, err)
	require.Len(t, res, 4)
	require.EqualValues(t, 2500, res[1].Int64())
	require.EqualValues(t, 10000, res[3].Int64())

	for _, s := range []string{
		"1000,2500,5000",
		"1000,2500,5000,10000,1",
		"1000,2500,5000,10001",
		"-1,2500,5000,10000",
		"a,2500,5000,10000",
	} {
		_, err := parsePayouts(s)
		require.Error(t, err, s)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1.5", 8)
	require.NoError(t, err)
	require.EqualValues(t, 1_5000_0000, v.Int64())

	v, err = parseAmount("3", 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, v.Int64())

	for _, s := range []string{"", "0", "-1", "abc"} {
		_, err := parseAmount(s, 8)
		require.Error(t, err, s)
	}
}

func TestParseAsset(t *testing.T) {
	h, err := parseAsset("gas")
	require.NoError(t, err)
	require.Equal(t, gas.Hash, h)

	token := util.Uint160{9, 8, 7}
	h, err = parseAsset(token.StringLE())
	require.NoError(t, err)
	require.Equal(t, token, h)

	_, err = parseAsset(util.Uint160{}.StringLE())
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	v, err := parseID("42")
	require.NoError(t, err)
	require.EqualValues(t, 42, v.Int64())

	for _, s := range []string{"", "-1", "x"} {
		_, err := parseID(s)
		require.Error(t, err, s)
	}
}
