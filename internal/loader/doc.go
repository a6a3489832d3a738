// Package loader reads YAML configuration files and resolves them into
// plain mappings. A document may name parent files through a reserved
// top-level key (child values win over parents), pull other files in via
// !include tags, and use explicitly relative paths that are rewritten
// against the declaring file. Inheritance chains are cycle-checked.
package loader
