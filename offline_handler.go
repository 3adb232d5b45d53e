package tunables

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	"github.com/itlightning/dateparse"
	"gopkg.in/yaml.v3"
)

// SupportedRegistryVersion is the registry document schema understood by this
// package. Documents with a different major version are rejected.
var SupportedRegistryVersion = semver.MustParse("1.0.0")

type DocumentFormat int

const (
	FormatJSON DocumentFormat = iota
	FormatYAML
)

// RegistryDocument is a decoded registry document.
type RegistryDocument struct {
	Version      semver.Version
	UpdatedAt    time.Time
	Flags        Registry
	BackendFlags map[string][]string
}

type registryDocumentModel struct {
	Version   string              `json:"version" yaml:"version"`
	UpdatedAt string              `json:"updated_at" yaml:"updated_at"`
	Flags     map[string][]any    `json:"flags" yaml:"flags"`
	Backends  map[string][]string `json:"backends" yaml:"backends"`
}

// ReadRegistryFromFile reads a registry document from a file path. Files with
// a .yaml or .yml extension are decoded as YAML, everything else as JSON.
func ReadRegistryFromFile(name string) (*RegistryDocument, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	return ParseRegistryDocument(data, format)
}

// ParseRegistryDocument decodes and checks a registry document.
func ParseRegistryDocument(data []byte, format DocumentFormat) (*RegistryDocument, error) {
	var model registryDocumentModel
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &model)
	default:
		err = json.Unmarshal(data, &model)
	}
	if err != nil {
		return nil, RegistryDocumentError{fmt.Sprintf("failed to decode registry document: %s", err)}
	}
	return model.toDocument()
}

func (m registryDocumentModel) toDocument() (*RegistryDocument, error) {
	doc := &RegistryDocument{
		Version:      SupportedRegistryVersion,
		Flags:        make(Registry, len(m.Flags)),
		BackendFlags: m.Backends,
	}

	if m.Version != "" {
		v, err := semver.ParseTolerant(m.Version)
		if err != nil {
			return nil, RegistryDocumentError{fmt.Sprintf("invalid registry document version %q: %s", m.Version, err)}
		}
		if v.Major != SupportedRegistryVersion.Major {
			return nil, RegistryDocumentError{fmt.Sprintf("unsupported registry document version %s, expected %d.x",
				v, SupportedRegistryVersion.Major)}
		}
		doc.Version = v
	}

	if m.UpdatedAt != "" {
		t, err := dateparse.ParseAny(m.UpdatedAt)
		if err != nil {
			return nil, RegistryDocumentError{fmt.Sprintf("invalid updated_at %q: %s", m.UpdatedAt, err)}
		}
		doc.UpdatedAt = t
	}

	if len(m.Flags) == 0 {
		return nil, RegistryDocumentError{"registry document has no flags"}
	}
	for _, flag := range sortedKeys(m.Flags) {
		values := m.Flags[flag]
		if len(values) == 0 {
			return nil, RegistryDocumentError{fmt.Sprintf("flag %s has no legal values", flag)}
		}
		doc.Flags[flag] = values
	}

	if doc.BackendFlags == nil {
		doc.BackendFlags = map[string][]string{}
	}
	for _, backend := range sortedKeys(doc.BackendFlags) {
		for _, flag := range doc.BackendFlags[backend] {
			if !doc.Flags.Has(flag) {
				return nil, RegistryDocumentError{fmt.Sprintf("backend %s lists unknown flag %s", backend, flag)}
			}
		}
	}
	return doc, nil
}
