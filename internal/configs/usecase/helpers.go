package usecase

import (
	apperrors "github.com/allisson/llm-config/internal/errors"
)

func isNotFound(err error) bool {
	return apperrors.Is(err, apperrors.ErrNotFound)
}
