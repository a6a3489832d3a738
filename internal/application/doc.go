// Package application wires the loader and override layers into the single
// pipeline the CLI runs: load a YAML file, resolve its inheritance chain,
// apply key.path=value overrides, and emit the merged document. It keeps
// the main package focused on flag parsing.
package application
