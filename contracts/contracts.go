/*
Package contracts provides access to compiled VaultGuard contracts.

Every contract is expected in its own directory holding contract.nef and
manifest.json files, the layout produced by

	neo-go contract compile -i <dir> -c <dir>/config.yml -m <dir>/manifest.json -o <dir>/contract.nef
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// VaultGuardDir is a directory of the escrow contract.
	VaultGuardDir = "vaultguard"
	// ReputationDir is a directory of the credential contract.
	ReputationDir = "reputation"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// Read reads compiled contract from the given directory of fsys.
func Read(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}

// ReadAll reads both VaultGuard contracts from fsys. Reputation contract is
// optional and zero if its directory is missing.
func ReadAll(fsys fs.FS) (vaultGuard Contract, reputation Contract, err error) {
	vaultGuard, err = Read(fsys, VaultGuardDir)
	if err != nil {
		return vaultGuard, reputation, fmt.Errorf("read contract %s: %w", VaultGuardDir, err)
	}

	if _, statErr := fs.Stat(fsys, ReputationDir); errors.Is(statErr, fs.ErrNotExist) {
		return vaultGuard, reputation, nil
	}

	reputation, err = Read(fsys, ReputationDir)
	if err != nil {
		return vaultGuard, reputation, fmt.Errorf("read contract %s: %w", ReputationDir, err)
	}

	return vaultGuard, reputation, nil
}
