package transport

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"

	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"

	"github.com/syncr-go/syncr/pkg/syncerr"
)

// secretKeySize matches the on-disk format described in the external
// interfaces: exactly 32 bytes of raw private key material (an Ed25519
// seed), not the 64-byte libp2p/stdlib expanded private key.
const secretKeySize = ed25519.SeedSize

// LoadOrCreateIdentity reads the 32-byte Ed25519 seed at path, generating
// and persisting a new one if the file does not yet exist.
func LoadOrCreateIdentity(path string) (libp2pcrypto.PrivKey, error) {
	seed, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, syncerr.Wrap(syncerr.FilesystemIO, path, err)
		}
		seed, err = generateSeed(path)
		if err != nil {
			return nil, err
		}
	}

	if len(seed) != secretKeySize {
		return nil, syncerr.Newf(syncerr.CanonicalizationFailure, "secret key at %s must be exactly %d bytes, got %d", path, secretKeySize, len(seed))
	}

	stdPriv := ed25519.NewKeyFromSeed(seed)
	priv, err := libp2pcrypto.UnmarshalEd25519PrivateKey(stdPriv)
	if err != nil {
		return nil, syncerr.Wrap(syncerr.CanonicalizationFailure, path, err)
	}
	return priv, nil
}

func generateSeed(path string) ([]byte, error) {
	seed := make([]byte, secretKeySize)
	if _, err := rand.Read(seed); err != nil {
		return nil, syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		return nil, syncerr.Wrap(syncerr.FilesystemIO, path, err)
	}
	return seed, nil
}
