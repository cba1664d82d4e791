// Package logger provides the structured logging capability used across
// savepoint. It wraps zerolog behind a small interface so the checkpoint
// core stays decoupled from any particular logging library.
//
// The checkpoint core only requires Info and Error; Warn and the field
// helpers exist for callers and the CLI. Any implementation of Logger can
// be injected, including TestLogger which captures entries for assertions.
//
// Basic usage:
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	err := logger.Initialize(cfg)
//
//	logger.GetLogger().Info("importer started")
//	log := logger.GetLogger().WithField("component", "checkpoint")
//	log.InfoWithFields("checkpoint restored", map[string]interface{}{
//	    "path": "/var/lib/importer/savepoint.json",
//	})
package logger
