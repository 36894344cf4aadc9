package domain

import (
	"github.com/julianstoll1/access-dashboard/internal/errors"
)

var (
	// ErrProjectNotFound indicates no project exists with the given id.
	ErrProjectNotFound = errors.Wrap(errors.ErrNotFound, "project not found")

	// ErrProjectNameTaken indicates another project already uses the name
	// (case-insensitive).
	ErrProjectNameTaken = errors.Wrap(errors.ErrConflict, "project name already exists")
)
