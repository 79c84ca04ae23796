package gallery

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/categories.yaml
var configFiles embed.FS

// unknownFileType is reported for extensions without a label
const unknownFileType = "unknown"

type categoryFile struct {
	Categories []categoryDefinition `yaml:"categories"`
	FileTypes  map[string]string    `yaml:"file_types"`
}

type categoryDefinition struct {
	Key        string   `yaml:"key"`
	Dimensions bool     `yaml:"dimensions"`
	Extensions []string `yaml:"extensions"`
}

// CategoryRegistry maps categories to extensions and back.
// It is read-only after construction.
type CategoryRegistry struct {
	order       []string
	extensions  map[string][]string
	dimensions  map[string]bool
	byExtension map[string]string
	fileTypes   map[string]string
}

// NewCategoryRegistry loads the embedded category table, or the YAML file at
// overridePath when it is non-empty.
func NewCategoryRegistry(overridePath string) (*CategoryRegistry, error) {
	var (
		data []byte
		err  error
	)
	if overridePath != "" {
		data, err = os.ReadFile(overridePath)
	} else {
		data, err = configFiles.ReadFile("config/categories.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return ParseCategoryRegistry(data)
}

// ParseCategoryRegistry builds a registry from YAML
func ParseCategoryRegistry(data []byte) (*CategoryRegistry, error) {
	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories: at least one category is required")
	}

	r := &CategoryRegistry{
		extensions:  make(map[string][]string, len(file.Categories)),
		dimensions:  make(map[string]bool, len(file.Categories)),
		byExtension: make(map[string]string),
		fileTypes:   make(map[string]string, len(file.FileTypes)),
	}

	for _, def := range file.Categories {
		key := strings.ToLower(strings.TrimSpace(def.Key))
		if key == "" {
			return nil, fmt.Errorf("categories: empty category key")
		}
		if _, dup := r.extensions[key]; dup {
			return nil, fmt.Errorf("categories: duplicate category %q", key)
		}

		exts := make([]string, 0, len(def.Extensions))
		for _, ext := range def.Extensions {
			ext = normalizeExtension(ext)
			if ext == "" {
				continue
			}
			exts = append(exts, ext)
			// First category listing an extension wins
			if _, seen := r.byExtension[ext]; !seen {
				r.byExtension[ext] = key
			}
		}

		r.order = append(r.order, key)
		r.extensions[key] = exts
		r.dimensions[key] = def.Dimensions
	}

	for ext, label := range file.FileTypes {
		r.fileTypes[normalizeExtension(ext)] = label
	}

	return r, nil
}

// ExtensionsFor returns the extensions of a category
func (r *CategoryRegistry) ExtensionsFor(category string) ([]string, bool) {
	exts, ok := r.extensions[strings.ToLower(category)]
	if !ok || len(exts) == 0 {
		return nil, false
	}
	out := make([]string, len(exts))
	copy(out, exts)
	return out, true
}

// CategoryFor returns the category of an extension, "" when unmapped
func (r *CategoryRegistry) CategoryFor(extension string) string {
	return r.byExtension[normalizeExtension(extension)]
}

// FileTypeFor returns the label of an extension
func (r *CategoryRegistry) FileTypeFor(extension string) string {
	if label, ok := r.fileTypes[normalizeExtension(extension)]; ok {
		return label
	}
	return unknownFileType
}

// SupportsDimensions reports whether the category carries width/height
func (r *CategoryRegistry) SupportsDimensions(category string) bool {
	return r.dimensions[strings.ToLower(category)]
}

// Categories lists category keys in definition order
func (r *CategoryRegistry) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
