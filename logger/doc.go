// Package logger provides structured logging for modelgraph applications
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("executor")
//	log.Info("pass completed", logger.Fields("graph", name))
package logger
