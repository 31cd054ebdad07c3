// Package config loads and merges fermicfg tool settings from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FERMICFG_FORMAT, FERMICFG_LOG_LEVEL,
//     FERMICFG_SNAPSHOT_DIR, FERMICFG_STRICT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/fermicfg/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key.
package config
