package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tetexact/ssacore/internal/ssa"
)

func loadModelConfig(path string) (ssa.ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ssa.ModelConfig{}, fmt.Errorf("read model file: %w", err)
	}
	var cfg ssa.ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ssa.ModelConfig{}, fmt.Errorf("parse model file: %w", err)
	}
	return cfg, nil
}
