package service

import (
	"portalmunicipal/cmd/internal/utils/apierror"
	"portalmunicipal/cmd/internal/utils/normalize"
)

// parseOptionalBRL converts a validated BRL string to cents. An empty
// string clears the value.
func parseOptionalBRL(field string, raw *string) (*int64, apierror.ErrorResponse) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	cents, err := normalize.ParseBRL(*raw)
	if err != nil {
		return nil, apierror.NewInvalidFieldValueError(field, *raw)
	}
	return &cents, nil
}

// parseOptionalDate converts a validated date-only string to UTC midnight
// millis. An empty string clears the value.
func parseOptionalDate(field string, raw *string) (*int64, apierror.ErrorResponse) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	millis, err := normalize.ParseDateOnlyMillis(*raw)
	if err != nil {
		return nil, apierror.NewInvalidFieldValueError(field, *raw)
	}
	return &millis, nil
}

func formatOptionalBRL(cents *int64) *string {
	if cents == nil {
		return nil
	}
	s := normalize.FormatBRL(*cents)
	return &s
}

func formatOptionalDate(millis *int64) *string {
	if millis == nil {
		return nil
	}
	s := normalize.FormatDateOnly(*millis)
	return &s
}
