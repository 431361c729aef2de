// Package confloader merges layered configuration into koanf-tagged structs.
//
// Sources are merged with koanf in increasing priority:
//
//  1. Default values (a nested map, see WithDefaults)
//  2. Configuration file (YAML)
//  3. Environment variables (MESHKV_ prefix)
//
// Watcher reports changes to a set of files through fsnotify. The server uses
// it for its config file and, via tlsroots, for certificate files.
package confloader
