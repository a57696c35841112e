package service

import (
	"fmt"

	"github.com/sangkips/trimtime-pos/pkg/apperror"
)

func fieldError(index int, field, message string) apperror.FieldError {
	return apperror.FieldError{Field: fmt.Sprintf("[%d].%s", index, field), Message: message}
}

func duplicateIDs[T any](items []T, key func(T) string) *apperror.FieldError {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			fe := fieldError(i, "id", "Duplicate id "+k)
			return &fe
		}
		seen[k] = struct{}{}
	}
	return nil
}
