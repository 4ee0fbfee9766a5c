package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httpresp"
	"github.com/BruksfildServices01/aklinic/internal/refcache"
	visituc "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

// PublicHandler serves the patient-facing pages and the TV queue.
type PublicHandler struct {
	create   *visituc.CreateVisit
	list     *visituc.ListVisits
	refs     *refcache.Cache
	calendar visituc.Calendar
	log      zerolog.Logger
}

func NewPublicHandler(
	create *visituc.CreateVisit,
	list *visituc.ListVisits,
	refs *refcache.Cache,
	calendar visituc.Calendar,
	log zerolog.Logger,
) *PublicHandler {
	return &PublicHandler{
		create:   create,
		list:     list,
		refs:     refs,
		calendar: calendar,
		log:      log,
	}
}

func (h *PublicHandler) Landing(c *gin.Context) {
	ctx := c.Request.Context()

	services, err := h.refs.Services(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("load services")
	}
	doctors, err := h.refs.Doctors(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("load doctors")
	}

	c.HTML(http.StatusOK, "landing.html", gin.H{
		"Title":    "Book a visit",
		"Services": services,
		"Doctors":  doctors,
	})
}

func (h *PublicHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Staff login"})
}

// Booking always lands back on the landing page, whatever happened.
func (h *PublicHandler) Booking(c *gin.Context) {
	defer httpresp.SeeOther(c, "/")

	scheduledAt, ok := parseSchedule(c.PostForm("scheduledAt"), h.calendar.Loc)
	if !ok {
		h.log.Info().Msg("booking rejected: bad or missing scheduledAt")
		return
	}

	serviceID, okService := optionalID(c.PostForm("serviceId"))
	doctorID, okDoctor := optionalID(c.PostForm("doctorId"))
	if !okService || !okDoctor {
		h.log.Info().Msg("booking rejected: bad reference id")
		return
	}

	_, err := h.create.Execute(c.Request.Context(), visituc.CreateVisitInput{
		Source:      domain.SourceOnline,
		FullName:    strings.TrimSpace(c.PostForm("fullName")),
		Phone:       strings.TrimSpace(c.PostForm("phone")),
		ServiceID:   serviceID,
		DoctorID:    doctorID,
		ScheduledAt: &scheduledAt,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("online booking failed")
	}
}

func (h *PublicHandler) QueueToday(c *gin.Context) {
	board, err := h.list.Board(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, board)
}

func (h *PublicHandler) TV(c *gin.Context) {
	board, err := h.list.Board(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load queue board")
		c.String(http.StatusInternalServerError, "Queue unavailable")
		return
	}

	c.HTML(http.StatusOK, "tv.html", gin.H{
		"Title":   "Queue",
		"Refresh": 15,
		"Board":   board,
	})
}
