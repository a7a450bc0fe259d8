package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/projectflow/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// fromRepo maps repository sentinels onto service sentinels, naming the entity.
func fromRepo(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s was modified concurrently, reload and retry", ErrConflict, entity)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, entity)
	}
	return fmt.Errorf("%s: %w", entity, err)
}
