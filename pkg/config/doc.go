// Package config loads stencil's configuration.
//
// Sources are layered with koanf, later ones winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user file, paths.ConfigFilePath()
//  3. an explicit file passed with --config
//  4. STENCIL_* environment variables, with "__" separating sections
//     (STENCIL_SYNC__SOURCE_ROOT sets sync.source_root)
package config
