// Package config provides loading, validation, and environment overlay for
// the flash manager configuration. It exposes a Default() baseline matching
// the reference deployment.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/flash-mgr.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	eng, _ := engine.New(cfg, logger)
//	_ = eng.Open()
//	defer eng.Close()
package config
