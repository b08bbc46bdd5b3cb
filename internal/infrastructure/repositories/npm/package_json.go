package npm

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rios0rios0/depalign/internal/domain/entities"
)

const manifestFile = "package.json"

var errInvalidJSON = errors.New("invalid JSON") //nolint:gochecknoglobals // sentinel

var errNotAnObject = errors.New("expected a JSON object") //nolint:gochecknoglobals // sentinel

// packageJSON is a package.json document kept as the raw file content.
// Replacements are spliced into the original bytes, so key order,
// indentation and the trailing newline are left exactly as they were.
type packageJSON struct {
	data []byte
}

func parsePackageJSON(data []byte) (*packageJSON, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errNotAnObject
	}
	return &packageJSON{data: data}, nil
}

func (p *packageJSON) get(key string) gjson.Result {
	return gjson.GetBytes(p.data, gjson.Escape(key))
}

func (p *packageJSON) name() string {
	if name := p.get("name"); name.Type == gjson.String {
		return name.Str
	}
	return ""
}

// section reads one dependency section in declaration order. Non-string
// values are skipped.
func (p *packageJSON) section(key string) (*entities.DependencyMap, error) {
	deps := entities.NewOrderedMap[string]()
	raw := p.get(key)
	if !raw.Exists() || raw.Type == gjson.Null {
		return deps, nil
	}
	if !raw.IsObject() {
		return nil, fmt.Errorf("%s: %w", key, errNotAnObject)
	}

	raw.ForEach(func(name, versionRange gjson.Result) bool {
		if versionRange.Type == gjson.String {
			deps.Set(name.String(), versionRange.Str)
		}
		return true
	})
	return deps, nil
}

func (p *packageJSON) manifest(location string) (entities.Manifest, error) {
	manifest := entities.Manifest{Location: location, Name: p.name()}
	targets := map[entities.DependencyType]**entities.DependencyMap{
		entities.DependencyTypeProd:     &manifest.Dependencies,
		entities.DependencyTypeDev:      &manifest.DevDependencies,
		entities.DependencyTypePeer:     &manifest.PeerDependencies,
		entities.DependencyTypeOptional: &manifest.OptionalDependencies,
	}
	for _, s := range entities.ManifestSections {
		deps, err := p.section(s.Key)
		if err != nil {
			return entities.Manifest{}, err
		}
		*targets[s.Type] = deps
	}
	return manifest, nil
}

// setDependency overwrites name in the section stored under key, if the
// section declares it. It reports whether anything changed.
func (p *packageJSON) setDependency(key, name, versionRange string) (bool, error) {
	section := p.get(key)
	if !section.IsObject() {
		return false, nil
	}
	path := gjson.Escape(key) + "." + gjson.Escape(name)
	if !gjson.GetBytes(p.data, path).Exists() {
		return false, nil
	}

	updated, err := sjson.SetBytes(p.data, path, versionRange)
	if err != nil {
		return false, fmt.Errorf("%s.%s: %w", key, name, err)
	}
	p.data = updated
	return true, nil
}

func (p *packageJSON) encode() []byte {
	return p.data
}
