// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the server needs at startup.
//
// Client-specific groups (Adapter, Workers) are validated separately by
// [ClientConfig.validate]; the shared config only requires a usable server
// transport and token material when a listen address is configured.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		// The client runs without any listen address; nothing to check here.
		return nil
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration == 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
