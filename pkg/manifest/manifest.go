// Package manifest locates and parses the magefile: the declarative list
// of dotfile entries mapping repository paths to target link locations.
//
// Two formats share one schema: TOML (the primary format) and YAML. Each
// top-level key names a source path relative to the repository root and
// holds a table with at least target_path. Entry order follows the
// document's declaration order; Go maps do not preserve it, so the TOML
// path recovers key order with go-toml's document parser.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/mage/pkg/errors"
	"github.com/arthur-debert/mage/pkg/logging"
	"github.com/arthur-debert/mage/pkg/types"
)

// DefaultBasename is the prefix a manifest filename must carry.
const DefaultBasename = "magefile"

// Find locates the magefile in dir, returning its path. Any regular file
// whose name starts with "magefile" qualifies; ReadDir's sorted order makes
// the choice deterministic when several exist.
func Find(fs types.FS, dir string) (string, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), DefaultBasename) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", errors.Newf(errors.ErrManifestNotFound, "no magefile found in %s", dir)
}

// Load finds and parses the magefile in dir.
func Load(fs types.FS, dir string) ([]types.ManifestEntry, error) {
	path, err := Find(fs, dir)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	return Parse(data, path)
}

// Parse decodes manifest content, dispatching on the file extension.
// Files without a .yaml/.yml extension are treated as TOML.
func Parse(data []byte, path string) ([]types.ManifestEntry, error) {
	logger := logging.GetLogger("manifest")

	var entries []types.ManifestEntry
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		entries, err = parseTOML(data)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", path).Int("entries", len(entries)).Msg("manifest parsed")
	return entries, nil
}

// parseTOML decodes a TOML manifest. Values come from a generic map
// unmarshal; key order comes from a second pass with the document parser.
func parseTOML(data []byte) ([]types.ManifestEntry, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse magefile")
	}

	keys, err := tomlKeyOrder(data)
	if err != nil {
		return nil, err
	}

	entries := make([]types.ManifestEntry, 0, len(keys))
	scanned := make(map[string]bool, len(keys))
	for _, key := range keys {
		scanned[key] = true
		entry, err := buildEntry(key, raw[key])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Every decoded key must have been seen by the order scan, otherwise
	// an entry would be silently dropped instead of validated.
	for key := range raw {
		if !scanned[key] {
			return nil, errors.Newf(errors.ErrManifestInvalid, "entry %q uses an unsupported key form", key).
				WithDetail("key", key)
		}
	}
	return entries, nil
}

// tomlKeyOrder walks the TOML document and returns the top-level keys in
// declaration order: table headers plus any key-values before the first
// header (inline-table entries, or malformed scalars that buildEntry must
// get a chance to reject). TOML itself rejects duplicate tables, so only
// the key-value side needs deduplication.
func tomlKeyOrder(data []byte) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	inTable := false
	parser := &unstable.Parser{}
	parser.Reset(data)
	for parser.NextExpression() {
		expr := parser.Expression()
		switch expr.Kind {
		case unstable.Table:
			inTable = true
			var parts []string
			it := expr.Key()
			for it.Next() {
				parts = append(parts, string(it.Node().Data))
			}
			if len(parts) > 0 {
				add(strings.Join(parts, "."))
			}
		case unstable.KeyValue:
			// Key-values after a table header belong to that table;
			// only the ones before the first header are top-level.
			if inTable {
				continue
			}
			it := expr.Key()
			if it.Next() {
				add(string(it.Node().Data))
			}
		}
	}
	if err := parser.Error(); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse magefile")
	}

	return keys, nil
}

// parseYAML decodes a YAML manifest via yaml.Node, which preserves the
// mapping order natively.
func parseYAML(data []byte) ([]types.ManifestEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse magefile")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrManifestInvalid, "magefile must be a mapping of entries")
	}

	seen := make(map[string]bool)
	entries := make([]types.ManifestEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value

		if seen[key] {
			return nil, errors.Newf(errors.ErrManifestInvalid, "duplicate entry %q", key).
				WithDetail("key", key)
		}
		seen[key] = true

		var value map[string]interface{}
		if err := valueNode.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "entry %q is not a mapping", key).
				WithDetail("key", key)
		}

		entry, err := buildEntry(key, value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// buildEntry validates one decoded entry table. Failures name the
// offending key so users can find the bad record.
func buildEntry(key string, value interface{}) (types.ManifestEntry, error) {
	table, ok := value.(map[string]interface{})
	if !ok {
		return types.ManifestEntry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q is not a table", key).
			WithDetail("key", key)
	}

	rawTarget, ok := table["target_path"]
	if !ok {
		return types.ManifestEntry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q is missing target_path", key).
			WithDetail("key", key)
	}
	target, ok := rawTarget.(string)
	if !ok || target == "" {
		return types.ManifestEntry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q: target_path must be a non-empty string", key).
			WithDetail("key", key)
	}

	entry := types.ManifestEntry{
		Key:        key,
		TargetPath: target,
	}

	// Legacy format directive, kept for reporting.
	if rawCmd, ok := table["is_installed_cmd"]; ok {
		cmd, ok := rawCmd.(string)
		if !ok {
			return types.ManifestEntry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q: is_installed_cmd must be a string", key).
				WithDetail("key", key)
		}
		entry.IsInstalledCmd = cmd
	}

	return entry, nil
}
