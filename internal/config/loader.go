package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"convoy/internal/catalog"
	"convoy/internal/stack"
	"convoy/pkg/logging"
)

const (
	catalogFileName = "catalog.yaml"
	servicesDirName = "services"
)

// descriptorDoc is the YAML shape of one catalog entry. The catalog file
// holds a list rather than a map so that registration order, and with it
// every deterministic tie-break downstream, is the order written in the file.
type descriptorDoc struct {
	Name      string   `yaml:"name"`
	Provides  []string `yaml:"provides,omitempty"`
	Requires  []string `yaml:"requires,omitempty"`
	Optional  []string `yaml:"optional,omitempty"`
	After     []string `yaml:"after,omitempty"`
	Conflicts []string `yaml:"conflicts,omitempty"`
}

type catalogDoc struct {
	Services []descriptorDoc `yaml:"services"`
}

// instanceDoc wraps a service instance with its enablement flag. Enabled is a
// pointer so that an absent key defaults to true.
type instanceDoc struct {
	stack.Instance `yaml:",inline"`
	Enabled        *bool `yaml:"enabled,omitempty"`
}

// Stack is one fully loaded configuration: the service catalog plus the
// enabled instances, in the order the loader found them.
type Stack struct {
	Dir       string
	Catalog   *catalog.Catalog
	Instances []stack.Instance
}

// LoadStack loads a stack directory: catalog.yaml for the descriptors and
// services/*.yaml for the instances (one per file, lexical file order,
// disabled entries skipped). All state comes back in the returned Stack; the
// loader keeps nothing.
func LoadStack(dir string) (*Stack, error) {
	cat, err := loadCatalog(filepath.Join(dir, catalogFileName))
	if err != nil {
		return nil, err
	}

	instances, err := loadInstances(filepath.Join(dir, servicesDirName))
	if err != nil {
		return nil, err
	}

	logging.Info("ConfigLoader", "Loaded stack from %s: %d services in catalog, %d enabled", dir, cat.Len(), len(instances))
	return &Stack{Dir: dir, Catalog: cat, Instances: instances}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ConfigError{
			FilePath:  path,
			Category:  "catalog",
			ErrorType: "io",
			Message:   err.Error(),
			Suggestions: []string{
				fmt.Sprintf("create %s with a top-level 'services' list", catalogFileName),
			},
		}
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseError(path, "catalog", err,
			"check the YAML syntax",
			"the catalog must contain a top-level 'services' list")
	}

	cat := catalog.New()
	for _, entry := range doc.Services {
		if entry.Name == "" {
			return nil, validationError(path, "catalog", "catalog entry without a name",
				"every entry under 'services' needs a 'name' field")
		}
		if err := cat.Register(toDescriptor(entry)); err != nil {
			return nil, validationError(path, "catalog", err.Error(),
				"service names must be unique within the catalog")
		}
	}
	return cat, nil
}

func toDescriptor(doc descriptorDoc) catalog.Descriptor {
	return catalog.Descriptor{
		Name:      doc.Name,
		Provides:  toCapabilities(doc.Provides),
		Requires:  toCapabilities(doc.Requires),
		Optional:  toCapabilities(doc.Optional),
		After:     doc.After,
		Conflicts: doc.Conflicts,
	}
}

func toCapabilities(names []string) []catalog.Capability {
	if len(names) == 0 {
		return nil
	}
	caps := make([]catalog.Capability, len(names))
	for i, name := range names {
		caps[i] = catalog.Capability(name)
	}
	return caps
}

func loadInstances(dir string) ([]stack.Instance, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Info("ConfigLoader", "No services directory at %s, stack is empty", dir)
			return nil, nil
		}
		return nil, ConfigError{FilePath: dir, Category: "services", ErrorType: "io", Message: err.Error()}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var instances []stack.Instance
	seen := make(map[string]string)
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ConfigError{FilePath: path, Category: "services", ErrorType: "io", Message: err.Error()}
		}

		var doc instanceDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, parseError(path, "services", err, "check the YAML syntax")
		}
		if doc.Name == "" {
			return nil, validationError(path, "services", "service instance without a name",
				"every service file needs a 'name' field")
		}
		if previous, dup := seen[doc.Name]; dup {
			return nil, validationError(path, "services",
				fmt.Sprintf("service %q already defined in %s", doc.Name, previous),
				"each service may be configured in at most one file")
		}
		seen[doc.Name] = name

		if doc.Enabled != nil && !*doc.Enabled {
			logging.Debug("ConfigLoader", "Service %s is disabled, skipping", doc.Name)
			continue
		}
		instances = append(instances, doc.Instance)
	}
	return instances, nil
}
