// Package config loads environment configuration into tagged structs.
//
// Each configuration type is parsed once and cached. A .env file in the working
// directory is loaded on first use; variables already set in the process win.
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure, useful at startup.
//	config.MustLoad(&cfg)
//
// Different types are cached independently, so loading a second value of the same
// type returns the first result without reading the environment again.
package config
