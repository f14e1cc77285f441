package models

import "github.com/google/uuid"

// assignID fills a missing primary key so inserts do not depend on a
// database-side uuid generator.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every persisted model in dependency order, for AutoMigrate in
// local sqlite databases and tests.
func All() []any {
	return []any{
		&MediaAsset{},
		&Brand{},
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&Partner{},
		&User{},
		&SiteSettings{},
	}
}
