// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/value.go
// Summary: App config value sink for the SaveConfig effect.

package config

import (
	"encoding/json"
	"fmt"
)

// SaveAppValue decodes a raw JSON value and persists it under the app
// namespace's top-level key.
func SaveAppValue(namespace, key string, value json.RawMessage) error {
	if namespace == "" || key == "" {
		return fmt.Errorf("config value requires namespace and key")
	}
	var decoded interface{}
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Errorf("decode config value %s/%s: %w", namespace, key, err)
	}

	cfg := App(namespace)
	mu.Lock()
	cfg[key] = decoded
	mu.Unlock()
	return SaveApp(namespace)
}

// Writer adapts the package store to effect-runner wiring.
type Writer struct{}

// SaveAppValue implements the runner's config sink.
func (Writer) SaveAppValue(namespace, key string, value json.RawMessage) error {
	return SaveAppValue(namespace, key, value)
}
