// Package log provides the structured logging facade used across the flash
// manager.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Entries flow through a Formatter
// (text or JSON) into one or more Outputs (console, file, null).
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("engine"))
//	l.Info("log opened", log.Uint32("active", 42))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config, supporting text
// or JSON formatting and console or file outputs. RedirectStdLog routes
// standard library log output through a Logger.
package log
