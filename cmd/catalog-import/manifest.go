package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// Manifest lists the brands and products to push into the CMS.
type Manifest struct {
	Brands   []BrandEntry   `yaml:"brands"`
	Products []ProductEntry `yaml:"products"`
}

// BrandEntry creates or reuses a brand by name.
type BrandEntry struct {
	Name           string `yaml:"name"`
	Status         string `yaml:"status"`
	Description    string `yaml:"description"`
	SEOTitle       string `yaml:"seoTitle"`
	SEODescription string `yaml:"seoDescription"`
	Cover          string `yaml:"cover"`
}

// ProductEntry is one product with its gallery and variant labels. Images
// are paths relative to the manifest file.
type ProductEntry struct {
	Name           string   `yaml:"name"`
	Brand          string   `yaml:"brand"`
	Status         string   `yaml:"status"`
	Description    string   `yaml:"description"`
	SEOTitle       string   `yaml:"seoTitle"`
	SEODescription string   `yaml:"seoDescription"`
	Option         string   `yaml:"option"`
	Variants       []string `yaml:"variants"`
	Images         []string `yaml:"images"`
}

func decodeManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := map[string]bool{}
	for i, b := range m.Brands {
		key := brandKey(b.Name)
		if key == "" {
			return fmt.Errorf("brands[%d]: name is required", i)
		}
		if seen[key] {
			return fmt.Errorf("brands[%d]: duplicate brand %q", i, b.Name)
		}
		seen[key] = true
		if err := checkStatus(b.Status); err != nil {
			return fmt.Errorf("brands[%d]: %w", i, err)
		}
	}
	for i, p := range m.Products {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("products[%d]: name is required", i)
		}
		if brandKey(p.Brand) == "" {
			return fmt.Errorf("products[%d]: brand is required", i)
		}
		if err := checkStatus(p.Status); err != nil {
			return fmt.Errorf("products[%d]: %w", i, err)
		}
	}
	return nil
}

// checkStatus accepts an empty status, which leaves the entity as a draft.
func checkStatus(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	_, err := enums.ParseEntityStatus(value)
	return err
}

func brandKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func optional(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
