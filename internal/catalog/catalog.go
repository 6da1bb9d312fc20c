// Package catalog reads meal import files. A file holds a JSON or YAML array
// of meals using the same field names as the MongoDB meals collection.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/validation"
)

// Format is the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file %q: expected .json, .yaml or .yml", filepath.Base(path))
	}
}

// LoadFile reads and validates the meals in path.
func LoadFile(path string) ([]models.Meal, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Parse(f, format)
}

// Parse decodes meals from r and validates every record. Either every meal
// is returned or none is: the first invalid record fails the whole file.
// Meals without an id get a new UUID.
func Parse(r io.Reader, format Format) ([]models.Meal, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var meals []models.Meal
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&meals)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&meals)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}
	if meals == nil {
		meals = []models.Meal{}
	}

	seen := make(map[string]int, len(meals))
	for i := range meals {
		m := &meals[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)
		if err := validation.ValidateMeal(*m); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if prev, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("record %d: id %q already used by record %d", i+1, m.ID, prev)
		}
		seen[m.ID] = i + 1
	}
	return meals, nil
}

// Write encodes meals in the given format.
func Write(w io.Writer, meals []models.Meal, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meals)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(meals); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported catalog format %q", format)
	}
}
