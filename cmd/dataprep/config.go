package main

import (
	"fmt"

	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/config"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/server"
)

// PipelineConfig tunes pipeline execution.
type PipelineConfig struct {
	// PartitionLimit caps concurrently running partitions. 0 means no limit.
	PartitionLimit int `yaml:"partition_limit" mapstructure:"partition_limit"`
	// PreparationDirs are searched when a preparation is named rather than
	// given as a path.
	PreparationDirs []string `yaml:"preparation_dirs" mapstructure:"preparation_dirs"`
}

// AppConfig is the full configuration of the dataprep binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Cache         cache.Config         `yaml:"cache" mapstructure:"cache"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Pipeline      PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
}

// ApplyDefaults applies default values to every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Server.ApplyDefaults()
	if len(c.Pipeline.PreparationDirs) == 0 {
		c.Pipeline.PreparationDirs = []string{".", "./preparations"}
	}
	if len(c.Server.PreparationDirs) == 0 {
		c.Server.PreparationDirs = c.Pipeline.PreparationDirs
	}
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("config.cache: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Pipeline.PartitionLimit < 0 {
		return fmt.Errorf("config.pipeline.partition_limit must be non-negative (got: %d)", c.Pipeline.PartitionLimit)
	}
	return nil
}
