package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/confmerge/confmerge/internal/merge"
)

// DefaultInheritKey is the reserved top-level key naming parent configuration files.
const DefaultInheritKey = "inherits"

// includeTag marks YAML nodes whose value names one or more files to load in place.
const includeTag = "!include"

// Loader resolves YAML configuration files into plain mappings. All state is
// explicit; the zero search paths are "." (relative to the declaring file)
// and "" (relative to the working directory).
type Loader struct {
	inheritKey        string
	searchPaths       []string
	resolvePathValues bool
	logger            *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithInheritKey overrides the reserved key naming parent files.
func WithInheritKey(key string) Option {
	return func(l *Loader) {
		l.inheritKey = key
	}
}

// WithSearchPaths replaces the search paths used to resolve bare file
// references. "." means relative to the declaring file, "" means relative to
// the working directory.
func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) {
		l.searchPaths = paths
	}
}

// WithPathValueResolution controls whether string values starting with ./,
// ../, or ~/ are rewritten relative to the declaring file's directory.
func WithPathValueResolution(enabled bool) Option {
	return func(l *Loader) {
		l.resolvePathValues = enabled
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader with default settings, adjusted by opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		inheritKey:        DefaultInheritKey,
		searchPaths:       []string{".", ""},
		resolvePathValues: true,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the YAML document at path, resolves !include tags and the
// inheritance key recursively, and returns the merged mapping. The inputs on
// disk are never modified; every call produces an independent document.
func (l *Loader) Load(path string) (map[string]any, error) {
	return l.loadFile(path, "", nil)
}

// LoadMap runs the inheritance pipeline over an in-memory document without
// reading a file first. baseDir anchors parent references; when empty, the
// working directory is used and path values are left verbatim. doc is not
// mutated.
func (l *Loader) LoadMap(doc map[string]any, baseDir string) (map[string]any, error) {
	child := map[string]any{}
	if doc != nil {
		child = merge.Clone(doc).(map[string]any)
	}
	return l.resolveDocument(child, baseDir, nil)
}

// Save writes doc to path as a YAML document. Loading the written file
// yields the same mapping back.
func Save(path string, doc map[string]any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadFile loads a single file and resolves it fully. chain holds the
// absolute paths already being loaded further up the call stack; revisiting
// one of them is a cycle.
func (l *Loader) loadFile(path, parentDir string, chain []string) (map[string]any, error) {
	full := l.ResolvePath(path, parentDir)

	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	for _, visited := range chain {
		if visited == abs {
			return nil, &CycleError{Chain: appendChain(chain, abs)}
		}
	}
	chain = appendChain(chain, abs)

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: full}
		}
		return nil, fmt.Errorf("read %s: %w", full, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: full, Err: err}
	}

	dir := filepath.Dir(full)
	doc, err := l.decodeDocument(&root, full, dir, chain)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded config file",
		zap.String("path", full),
		zap.Int("keys", len(doc)))

	return l.resolveDocument(doc, dir, chain)
}

// decodeDocument converts a parsed YAML document into a mapping, resolving
// !include tags on the way. An empty file decodes to an empty mapping.
func (l *Loader) decodeDocument(root *yaml.Node, path, dir string, chain []string) (map[string]any, error) {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return map[string]any{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return map[string]any{}, nil
	}

	value, err := l.decodeNode(node, path, dir, chain, map[*yaml.Node]struct{}{})
	if err != nil {
		return nil, err
	}
	if value == nil {
		return map[string]any{}, nil
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("document root is %T, expected a mapping", value)}
	}
	return doc, nil
}

// decodeNode converts one YAML node. active holds the nodes currently being
// decoded further up the stack; an anchor reached again through one of its
// own aliases would otherwise recurse forever, since yaml.v3 composes such
// documents into a cyclic node graph without complaint.
func (l *Loader) decodeNode(node *yaml.Node, path, dir string, chain []string, active map[*yaml.Node]struct{}) (any, error) {
	if _, ok := active[node]; ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("line %d: anchor value contains itself", node.Line)}
	}
	active[node] = struct{}{}
	defer delete(active, node)

	switch node.Kind {
	case yaml.AliasNode:
		return l.decodeNode(node.Alias, path, dir, chain, active)

	case yaml.MappingNode:
		return l.decodeMapping(node, path, dir, chain, active)

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := l.decodeNode(item, path, dir, chain, active)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil

	case yaml.ScalarNode:
		if node.Tag == includeTag {
			return l.loadIncludes(node.Value, path, dir, chain)
		}
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		return value, nil

	default:
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported YAML node kind %d", node.Kind)}
	}
}

// decodeMapping decodes a mapping node. A key tagged !include merges the
// referenced files beneath the mapping's explicit keys; the key's own value
// is ignored.
func (l *Loader) decodeMapping(node *yaml.Node, path, dir string, chain []string, active map[*yaml.Node]struct{}) (any, error) {
	included := map[string]any{}
	explicit := map[string]any{}
	seen := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if key.Tag == includeTag {
			doc, err := l.loadIncludes(key.Value, path, dir, chain)
			if err != nil {
				return nil, err
			}
			included = merge.Merge(included, doc)
			continue
		}

		if key.Kind != yaml.ScalarNode {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("line %d: mapping keys must be scalars", key.Line)}
		}
		name := key.Value
		if _, dup := seen[name]; dup {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("line %d: duplicate key %q", key.Line, name)}
		}
		seen[name] = struct{}{}

		decoded, err := l.decodeNode(value, path, dir, chain, active)
		if err != nil {
			return nil, err
		}
		explicit[name] = decoded
	}

	if len(included) == 0 {
		return explicit, nil
	}
	return merge.Merge(included, explicit), nil
}

// loadIncludes loads the whitespace-separated file references of an !include
// tag, merging them in order so later files win.
func (l *Loader) loadIncludes(raw, path, dir string, chain []string) (map[string]any, error) {
	refs := strings.Fields(raw)
	if len(refs) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s tag without a file reference", includeTag)}
	}
	out := map[string]any{}
	for _, ref := range refs {
		doc, err := l.loadFile(ref, dir, chain)
		if err != nil {
			return nil, err
		}
		out = merge.Merge(out, doc)
	}
	return out, nil
}

// resolveDocument applies the inheritance key and path-value rewriting to a
// decoded document. The document is owned by the caller and may be mutated.
func (l *Loader) resolveDocument(doc map[string]any, dir string, chain []string) (map[string]any, error) {
	base := map[string]any{}
	if ref, ok := doc[l.inheritKey]; ok {
		resolved, err := l.resolveInherit(ref, dir, chain)
		if err != nil {
			return nil, err
		}
		base = resolved
		delete(doc, l.inheritKey)
	}

	if l.resolvePathValues && dir != "" {
		expandPathValues(doc, dir)
	}

	if len(base) == 0 {
		return doc, nil
	}
	return merge.Merge(base, doc), nil
}

// resolveInherit loads the parent files named by an inheritance reference.
// A string names a single file; a sequence merges several parents in order
// with later ones winning; a mapping loads each reference under its key as a
// namespace. The caller's own values are merged on top afterwards.
func (l *Loader) resolveInherit(ref any, dir string, chain []string) (map[string]any, error) {
	switch typed := ref.(type) {
	case string:
		return l.loadFile(typed, dir, chain)

	case []any:
		out := map[string]any{}
		for _, element := range typed {
			doc, err := l.resolveInherit(element, dir, chain)
			if err != nil {
				return nil, err
			}
			out = merge.Merge(out, doc)
		}
		return out, nil

	case map[string]any:
		out := map[string]any{}
		for namespace, element := range typed {
			doc, err := l.resolveInherit(element, dir, chain)
			if err != nil {
				return nil, err
			}
			out[namespace] = doc
		}
		return out, nil

	default:
		return nil, &InheritError{Key: l.inheritKey, Value: ref}
	}
}

// appendChain copies the chain before appending so sibling branches of a
// diamond-shaped inheritance graph do not share backing storage.
func appendChain(chain []string, path string) []string {
	out := make([]string, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, path)
}
