package persistence

import (
	"errors"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound maps gorm's record-not-found to the domain sentinel
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// isConstraintViolation reports whether err is a unique or foreign key violation
// in the dialect of db
func isConstraintViolation(db *gorm.DB, err error) bool {
	if err == nil {
		return false
	}
	translator, ok := db.Dialector.(gorm.ErrorTranslator)
	if !ok {
		return false
	}
	translated := translator.Translate(err)
	return errors.Is(translated, gorm.ErrDuplicatedKey) || errors.Is(translated, gorm.ErrForeignKeyViolated)
}

// integrity reports constraint violations as INTEGRITY_ERROR carrying the
// store's own message and passes other errors through
func integrity(db *gorm.DB, err error) error {
	if isConstraintViolation(db, err) {
		return shared.NewIntegrityError(err)
	}
	return err
}
