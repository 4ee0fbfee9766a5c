package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/aklinic/internal/httperr"
)

type businessStatus struct {
	status  int
	message string
}

// Messages match what the existing front-end clients display.
var businessErrors = map[string]businessStatus{
	"missing_required_fields":   {http.StatusBadRequest, "Missing required fields"},
	"service_not_found":         {http.StatusBadRequest, "Service not found"},
	"doctor_not_found":          {http.StatusBadRequest, "Doctor not found"},
	"doctor_profile_not_found":  {http.StatusBadRequest, "Doctor profile not found"},
	"invalid_status":            {http.StatusBadRequest, "Invalid status"},
	"invalid_status_transition": {http.StatusBadRequest, "Invalid status transition"},
	"phone_required":            {http.StatusBadRequest, "Phone number required"},
	"invalid_follow_up_date":    {http.StatusBadRequest, "Invalid follow-up date"},
	"visit_not_found":           {http.StatusNotFound, "Visit not found"},
	"payment_not_found":         {http.StatusNotFound, "Payment not found"},
}

// writeError maps business codes to their HTTP shape and hides the rest.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	if code := httperr.CodeOf(err); code != "" {
		if bs, ok := businessErrors[code]; ok {
			httperr.Write(c, bs.status, code, bs.message)
			return
		}
		httperr.BadRequest(c, code, code)
		return
	}

	if httperr.IsUniqueViolation(err) {
		httperr.Conflict(c, "conflict", "Resource already exists")
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	httperr.Internal(c, "internal_error", "Internal server error")
}
