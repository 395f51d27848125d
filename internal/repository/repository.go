// Package repository implements the domain repositories on gorm/PostgreSQL.
package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// translate maps gorm's not-found to the entity's sentinel.
func translate(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func normalizePage(page, size int) (int, int) {
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, size
}

// save rewrites every column of an existing row except created_at and
// associations. A row that no longer exists reports notFound.
func save(db *gorm.DB, value any, notFound error) error {
	res := db.Model(value).Select("*").Omit("created_at", clause.Associations).Updates(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// isDuplicate relies on gorm's TranslateError being enabled on the connection.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// deleteByID hard-deletes and reports notFound when no row matched.
func deleteByID(db *gorm.DB, model any, id any, notFound error) error {
	res := db.Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
