package service

import (
	"fmt"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// wrapStore adds context to storage failures and leaves domain errors
// untouched so their message still reads well in an API response.
func wrapStore(err error, format string, args ...any) error {
	if domain.IsDomainError(err) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
