package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs, VaultGuardDir)
	require.Error(t, err)

	// Missing manifest.
	_fs[VaultGuardDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs, VaultGuardDir)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = VaultGuardDir + "/" + nefName
		manifestPath = VaultGuardDir + "/" + manifestName
	)

	expNEF, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "VaultGuard")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := Read(_fs, VaultGuardDir)
	require.NoError(t, err)
	require.Equal(t, expNEF.Checksum, c.NEF.Checksum)
	require.Equal(t, "VaultGuard", c.Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = Read(_fs, VaultGuardDir)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs, VaultGuardDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadAll(t *testing.T) {
	_, validNEF := anyValidNEF(t)
	_, vgManifest := anyValidManifest(t, "VaultGuard")
	_, repManifest := anyValidManifest(t, "VaultGuard Reputation")

	_fs := fstest.MapFS{
		VaultGuardDir + "/" + nefName:      &fstest.MapFile{Data: validNEF},
		VaultGuardDir + "/" + manifestName: &fstest.MapFile{Data: vgManifest},
	}

	vg, rep, err := ReadAll(_fs)
	require.NoError(t, err)
	require.Equal(t, "VaultGuard", vg.Manifest.Name)
	require.Empty(t, rep.NEF.Script)

	_fs[ReputationDir+"/"+nefName] = &fstest.MapFile{Data: validNEF}

	_, _, err = ReadAll(_fs)
	require.Error(t, err)

	_fs[ReputationDir+"/"+manifestName] = &fstest.MapFile{Data: repManifest}

	_, rep, err = ReadAll(_fs)
	require.NoError(t, err)
	require.Equal(t, "VaultGuard Reputation", rep.Manifest.Name)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
