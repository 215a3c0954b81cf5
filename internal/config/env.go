// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment following the `env`, `envPrefix`
// and `envDefault` tags. Every variable is optional here; required values
// are enforced after merging, in validate.
func parseEnv(cfg any) error {
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: false}); err != nil {
		return fmt.Errorf("error reading environment: %w", err)
	}
	return nil
}
