package graph

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/modelgraph/errors"
	"github.com/kbukum/modelgraph/validation"
)

// Manifest is a YAML-defined graph description. Nodes are declared in
// topological order: a node's inputs must name nodes declared above it,
// matching the Builder's forward-reference rule.
type Manifest struct {
	// Name is the graph identifier.
	Name string `yaml:"name" validate:"required"`
	// Nodes defines the graph's node specifications in insertion order.
	Nodes []NodeDef `yaml:"nodes" validate:"required,min=1,dive"`
}

// NodeDef defines one node within a manifest.
type NodeDef struct {
	// Predictor is the registry lookup key for this node.
	Predictor string `yaml:"predictor" validate:"required"`
	// Inputs lists predictor names whose outputs feed this node.
	Inputs []string `yaml:"inputs,omitempty"`
	// AcceptsData overrides automatic data-acceptance resolution when set.
	AcceptsData *bool `yaml:"accepts_data,omitempty"`
}

// LoadManifest reads and validates a manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("graph: parsing %s: %w", path, err)
	}
	if err := validation.Validate(m); err != nil {
		return nil, fmt.Errorf("graph: manifest %s: %w", path, err)
	}
	return &m, nil
}

// ManifestLoader loads manifest definitions by name.
type ManifestLoader interface {
	Load(name string) (*Manifest, error)
}

// FileManifestLoader loads manifests from YAML files on disk.
type FileManifestLoader struct {
	dirs []string
}

// NewFileManifestLoader creates a loader that searches the given
// directories for manifest YAML files.
func NewFileManifestLoader(dirs ...string) ManifestLoader {
	return &FileManifestLoader{dirs: dirs}
}

// Load searches for {name}.yaml and {name}.yml in each configured
// directory. A manifest that exists but fails to parse or validate is
// reported as that failure, not as not-found.
func (l *FileManifestLoader) Load(name string) (*Manifest, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			m, err := LoadManifest(path)
			if err == nil {
				return m, nil
			}
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
	}
	return nil, errors.NotFound("manifest", name)
}

// Build resolves the manifest's node definitions against a predictor
// registry and returns a frozen graph.
func (m *Manifest) Build(reg *PredictorRegistry) (*Graph, error) {
	b := NewBuilder()

	for _, def := range m.Nodes {
		p, ok := reg.Get(def.Predictor)
		if !ok {
			return nil, errors.NotFound("predictor", def.Predictor)
		}

		var opts []NodeOption
		if len(def.Inputs) > 0 {
			ids := make([]NodeID, 0, len(def.Inputs))
			for _, inputName := range def.Inputs {
				id, ok := b.Lookup(inputName)
				if !ok {
					// Also covers forward references: the input hasn't
					// been declared above this node.
					return nil, errors.UnknownInput(def.Predictor, -1).
						WithDetail("input_name", inputName)
				}
				ids = append(ids, id)
			}
			opts = append(opts, WithInputs(ids...))
		}
		if def.AcceptsData != nil {
			opts = append(opts, WithAcceptsData(*def.AcceptsData))
		}

		if _, err := b.Add(p, opts...); err != nil {
			return nil, fmt.Errorf("graph: manifest %q node %q: %w", m.Name, def.Predictor, err)
		}
	}

	return b.Freeze()
}
