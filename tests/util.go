package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// checkHash invokes the method and checks that it returns the expected
// script hash. Contract returns hashes as byte strings or buffers depending
// on where they come from, so the result is decoded before comparison.
func checkHash(t *testing.T, c *neotest.ContractInvoker, expected util.Uint160, method string, args ...any) {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)

	b, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)

	actual, err := util.Uint160DecodeBytesBE(b)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}
