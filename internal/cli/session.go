package cli

import (
	"fmt"

	"github.com/camomile-project/camomile-go/pkg/camomile"
)

// newClient builds a client from the loaded configuration. A stored session
// token is resumed when present.
func newClient() (*camomile.Client, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}

	opts := []camomile.Option{}
	if cfg.Token != "" {
		opts = append(opts, camomile.WithToken(cfg.Token))
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, camomile.WithInsecureSkipVerify())
	}

	client, err := camomile.New(cfg.ServerURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return client, nil
}
