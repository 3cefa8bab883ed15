package commands

import (
	"fmt"
	"os"

	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"

	"github.com/syncr-go/syncr/internal/logger"
	"github.com/syncr-go/syncr/pkg/config"
	"github.com/syncr-go/syncr/pkg/peer"
	"github.com/syncr-go/syncr/pkg/store"
	"github.com/syncr-go/syncr/pkg/transport"
)

// loadConfig reads configuration from the global --config flag, falling
// back to the default location.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// initLogger wires the structured logger from cfg's logging section. A
// non-empty SYNCR_LOG environment variable overrides the configured level.
func initLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if level := os.Getenv("SYNCR_LOG"); level != "" {
		loggerCfg.Level = level
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadIdentity loads (or creates, on first run) this host's long-lived
// Ed25519 seed from the config directory.
func loadIdentity() (libp2pcrypto.PrivKey, error) {
	priv, err := transport.LoadOrCreateIdentity(config.SecretKeyPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return priv, nil
}

// localPeerID derives this host's peer identity from priv without binding
// any network listener, for commands like "info" that only need the key.
func localPeerID(priv libp2pcrypto.PrivKey) (peer.ID, error) {
	raw, err := priv.GetPublic().Raw()
	if err != nil {
		return peer.ID{}, fmt.Errorf("failed to derive public key: %w", err)
	}
	return peer.FromBytes(raw)
}

// openStore opens the metadata store at the config directory's db subpath.
func openStore() (*store.Store, error) {
	s, err := store.Open(config.DBDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	return s, nil
}

// newTransport binds a Transport using the host's persisted identity and
// the addresses configured for listening.
func newTransport(cfg *config.Config) (*transport.Transport, error) {
	priv, err := loadIdentity()
	if err != nil {
		return nil, err
	}
	t, err := transport.New(priv, cfg.Listen.Addrs)
	if err != nil {
		return nil, fmt.Errorf("failed to start transport: %w", err)
	}
	return t, nil
}

// parsePeerArg decodes a peer identity CLI argument (hex or base32).
func parsePeerArg(s string) (peer.ID, error) {
	id, err := peer.Parse(s)
	if err != nil {
		return peer.ID{}, fmt.Errorf("invalid peer %q: %w", s, err)
	}
	return id, nil
}
