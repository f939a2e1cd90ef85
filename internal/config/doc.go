// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

/*
Package config loads service configuration with koanf.

Configuration is layered, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/smart-cooking/config.yaml)
 3. Environment variables listed in the envTransformFunc mapping table

Example:

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

Validate reports the first invalid field with the environment variable that
sets it.
*/
package config
