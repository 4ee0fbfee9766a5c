package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/httpresp"
	"github.com/BruksfildServices01/aklinic/internal/timezone"
	visituc "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

type DoctorHandler struct {
	list     *visituc.ListVisits
	update   *visituc.UpdateVisit
	calendar visituc.Calendar
	log      zerolog.Logger
}

func NewDoctorHandler(
	list *visituc.ListVisits,
	update *visituc.UpdateVisit,
	calendar visituc.Calendar,
	log zerolog.Logger,
) *DoctorHandler {
	return &DoctorHandler{
		list:     list,
		update:   update,
		calendar: calendar,
		log:      log,
	}
}

func (h *DoctorHandler) Page(c *gin.Context) {
	id := identity(c)
	if id == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	day, err := h.list.ForDoctor(c.Request.Context(), id.ID)
	if err != nil {
		if httperr.IsBusiness(err, "doctor_profile_not_found") {
			c.String(http.StatusBadRequest, "Doctor profile not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", id.ID).Msg("load doctor day")
		c.String(http.StatusInternalServerError, "Visits unavailable")
		return
	}

	c.HTML(http.StatusOK, "doctor.html", gin.H{
		"Title":     "Doctor",
		"User":      id,
		"Doctor":    day.Doctor,
		"Visits":    day.Today,
		"FollowUps": day.FollowUps,
		"Statuses":  domain.Statuses(),
	})
}

// UpdateVisit applies only the fields present in the form.
func (h *DoctorHandler) UpdateVisit(c *gin.Context) {
	visitID, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_visit_id", "Invalid visit id")
		return
	}

	user := identity(c)
	if user == nil {
		httperr.AbortUnauthorized(c)
		return
	}

	patch, err := h.patchFromForm(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	_, err = h.update.Execute(c.Request.Context(), visituc.UpdateVisitInput{
		DoctorUserID: user.ID,
		VisitID:      visitID,
		Patch:        patch,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.SeeOther(c, "/doctor")
}

func (h *DoctorHandler) patchFromForm(c *gin.Context) (domain.Patch, error) {
	var p domain.Patch

	if v, ok := c.GetPostForm("diagnosis"); ok {
		v = strings.TrimSpace(v)
		p.Diagnosis = &v
	}
	if v, ok := c.GetPostForm("treatmentNotes"); ok {
		v = strings.TrimSpace(v)
		p.TreatmentNotes = &v
	}
	if v := strings.TrimSpace(c.PostForm("status")); v != "" {
		s, err := domain.ParseStatus(v)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if v := strings.TrimSpace(c.PostForm("followUpDate")); v != "" {
		d, err := timezone.ParseDate(v, h.calendar.Loc)
		if err != nil {
			return p, httperr.ErrBusiness("invalid_follow_up_date")
		}
		p.FollowUpDate = &d
	}

	return p, nil
}
