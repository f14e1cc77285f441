package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/internal/editor"
	"github.com/alcotrade/alcotrade-cms/pkg/cmsclient"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
)

type catalogAPI interface {
	editor.Gateway
	BrandOptions(ctx context.Context) ([]cmsclient.BrandOption, error)
}

// Summary counts what one import run saved.
type Summary struct {
	BrandsCreated int
	BrandsReused  int
	Products      int
	Images        int
}

type importer struct {
	api     catalogAPI
	baseDir string
	logg    *logger.Logger

	brandIDs map[string]string
}

func newImporter(api catalogAPI, baseDir string, logg *logger.Logger) *importer {
	return &importer{api: api, baseDir: baseDir, logg: logg, brandIDs: map[string]string{}}
}

// Run saves brands first so products can reference them by name. Existing
// brands with the same name are reused, never updated.
func (im *importer) Run(ctx context.Context, m *Manifest) (Summary, error) {
	var sum Summary

	options, err := im.api.BrandOptions(ctx)
	if err != nil {
		return sum, fmt.Errorf("load brand options: %w", err)
	}
	for _, opt := range options {
		im.brandIDs[brandKey(opt.Name)] = opt.ID
	}

	for _, entry := range m.Brands {
		if _, ok := im.brandIDs[brandKey(entry.Name)]; ok {
			sum.BrandsReused++
			continue
		}
		id, err := im.saveBrand(ctx, entry)
		if err != nil {
			return sum, fmt.Errorf("brand %q: %w", entry.Name, err)
		}
		im.brandIDs[brandKey(entry.Name)] = id
		sum.BrandsCreated++
	}

	for _, entry := range m.Products {
		uploaded, err := im.saveProduct(ctx, entry)
		sum.Images += uploaded
		if err != nil {
			return sum, fmt.Errorf("product %q: %w", entry.Name, err)
		}
		sum.Products++
	}
	return sum, nil
}

func (im *importer) saveBrand(ctx context.Context, entry BrandEntry) (string, error) {
	session, err := editor.NewBrandSession(im.api, nil, im.logg)
	if err != nil {
		return "", err
	}
	session.Apply(func(d draft.BrandDraft) draft.BrandDraft {
		d = draft.SetBrandField(d, draft.FieldName, entry.Name)
		d = draft.SetBrandField(d, draft.FieldStatus, entry.Status)
		d = draft.SetBrandField(d, draft.FieldDescription, optional(entry.Description))
		d = draft.SetBrandField(d, draft.FieldSEOTitle, optional(entry.SEOTitle))
		return draft.SetBrandField(d, draft.FieldSEODescription, optional(entry.SEODescription))
	})

	if entry.Cover != "" {
		file, closeFn, err := im.open(entry.Cover, entry.Name)
		if err != nil {
			return "", err
		}
		err = session.UploadCover(ctx, file)
		closeFn()
		if err != nil {
			return "", err
		}
	}
	return session.Save(ctx)
}

// saveProduct uploads images one by one before saving, and reports how many
// uploads succeeded even when a later step fails.
func (im *importer) saveProduct(ctx context.Context, entry ProductEntry) (int, error) {
	brandID, ok := im.brandIDs[brandKey(entry.Brand)]
	if !ok {
		return 0, fmt.Errorf("unknown brand %q", entry.Brand)
	}

	session, err := editor.NewProductSession(im.api, nil, im.logg)
	if err != nil {
		return 0, err
	}
	session.Apply(func(d draft.ProductDraft) draft.ProductDraft {
		d = draft.SetField(d, draft.FieldName, entry.Name)
		d = draft.SetField(d, draft.FieldStatus, entry.Status)
		d = draft.SetField(d, draft.FieldBrandID, brandID)
		d = draft.SetField(d, draft.FieldDescription, optional(entry.Description))
		d = draft.SetField(d, draft.FieldSEOTitle, optional(entry.SEOTitle))
		d = draft.SetField(d, draft.FieldSEODescription, optional(entry.SEODescription))
		if len(entry.Variants) > 0 {
			d = draft.SetVariantsFromValues(d, entry.Option, entry.Variants)
		}
		return d
	})

	uploaded := 0
	for _, path := range entry.Images {
		file, closeFn, err := im.open(path, entry.Name)
		if err != nil {
			return uploaded, err
		}
		err = session.UploadImages(ctx, file)
		closeFn()
		if err != nil {
			return uploaded, err
		}
		uploaded++
	}

	id, err := session.Save(ctx)
	if err != nil {
		return uploaded, err
	}
	ctx = im.logg.WithFields(ctx, map[string]any{"product_id": id, "images": uploaded})
	im.logg.Info(ctx, "catalog_import.product.saved")
	return uploaded, nil
}

func (im *importer) open(path, alt string) (cmsclient.File, func(), error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(im.baseDir, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return cmsclient.File{}, nil, fmt.Errorf("open image: %w", err)
	}
	return cmsclient.File{Name: filepath.Base(full), Reader: f, Alt: alt}, func() { _ = f.Close() }, nil
}
