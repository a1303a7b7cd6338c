package services

import (
	"errors"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/metrics"
)

func record(operation string, err error) {
	metrics.ShowOperationsTotal.WithLabelValues(operation, resultOf(err)).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return metrics.ResultNotFound
	case errors.Is(err, &apperrors.ErrInvalidShow{}):
		return metrics.ResultInvalid
	default:
		return "error"
	}
}
