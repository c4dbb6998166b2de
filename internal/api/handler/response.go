package handler

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/listing"
	"github.com/vfg2006/sales-ranking-api/internal/usecases/profiling"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
	"github.com/vfg2006/sales-ranking-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	utils.WriteJSON(w, status, body)
}

// writeServiceError traduz os erros tipados dos casos de uso para a resposta padronizada
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	var (
		ingestionErr *ingesting.IngestionError
		listingErr   *listing.ListingError
		profileErr   *profiling.ProfileError
	)

	switch {
	case errors.As(err, &ingestionErr):
		apiErrors.WriteError(w, ingestionErr.Code, ingestionErr.Err.Error(), detailsOrNil(ingestionErr.Details))
	case errors.As(err, &listingErr):
		var details any
		if len(listingErr.Fields) > 0 {
			details = listingErr.Fields
		} else {
			details = detailsOrNil(listingErr.Details)
		}
		apiErrors.WriteError(w, listingErr.Code, listingErr.Err.Error(), details)
	case errors.As(err, &profileErr):
		apiErrors.WriteError(w, profileErr.Code, profileErr.Err.Error(), detailsOrNil(profileErr.Details))
	default:
		log.ForContext(ctx).WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, fallback, nil)
	}
}

func detailsOrNil(details string) any {
	if details == "" {
		return nil
	}
	return details
}
