// Package config provides configuration options for the tuning-table generator.
//
// This package defines the configuration structure and functional options pattern
// for customizing generation. The grouper, encoder, emitter and generator all
// receive the same Config instance instead of reading package-level lists, so
// tests can exercise alternate schemas and vocabularies.
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithParallelism(4),
//	    config.WithIncludeChecksums(true),
//	    config.WithFamilies([]string{"xgemm*"}),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Immutability
//
// Config fields are unexported and read through getters. Getters returning
// slices return copies.
//
// # Environment
//
// TTGEN_PARALLELISM overrides the default parallelism when set to a positive
// integer. Explicit options still win over the environment.
package config
