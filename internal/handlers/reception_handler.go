package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/httpresp"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
	"github.com/BruksfildServices01/aklinic/internal/refcache"
	visituc "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

// ======================================================
// HANDLER
// ======================================================

type ReceptionHandler struct {
	create   *visituc.CreateVisit
	list     *visituc.ListVisits
	history  *visituc.PatientHistory
	receipts *visituc.Receipts
	archiver *receipts.S3Archiver
	refs     *refcache.Cache
	log      zerolog.Logger
}

func NewReceptionHandler(
	create *visituc.CreateVisit,
	list *visituc.ListVisits,
	history *visituc.PatientHistory,
	receiptsUC *visituc.Receipts,
	archiver *receipts.S3Archiver,
	refs *refcache.Cache,
	log zerolog.Logger,
) *ReceptionHandler {
	return &ReceptionHandler{
		create:   create,
		list:     list,
		history:  history,
		receipts: receiptsUC,
		archiver: archiver,
		refs:     refs,
		log:      log,
	}
}

// ======================================================
// PAGES
// ======================================================

func (h *ReceptionHandler) Page(c *gin.Context) {
	ctx := c.Request.Context()

	visits, err := h.list.Today(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("load today's visits")
		c.String(http.StatusInternalServerError, "Visits unavailable")
		return
	}

	next, err := h.list.NextQueueNumber(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("peek queue number")
	}

	services, _ := h.refs.Services(ctx)
	doctors, _ := h.refs.Doctors(ctx)

	c.HTML(http.StatusOK, "reception.html", gin.H{
		"Title":     "Reception",
		"User":      identity(c),
		"Visits":    visits,
		"Counts":    visituc.GroupByStatus(visits).Counts(),
		"NextQueue": next,
		"Services":  services,
		"Doctors":   doctors,
	})
}

func (h *ReceptionHandler) ReceiptPage(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid visit id")
		return
	}

	r, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		if httperr.IsBusiness(err, "visit_not_found") {
			c.String(http.StatusNotFound, "Visit not found")
			return
		}
		h.log.Error().Err(err).Uint("visit_id", id).Msg("load receipt")
		c.String(http.StatusInternalServerError, "Receipt unavailable")
		return
	}

	c.HTML(http.StatusOK, "receipt.html", gin.H{
		"Title":   "Receipt",
		"Receipt": r,
	})
}

// ======================================================
// API
// ======================================================

func (h *ReceptionHandler) CreateVisit(c *gin.Context) {
	serviceID, ok := optionalID(c.PostForm("serviceId"))
	if !ok {
		writeError(c, h.log, httperr.ErrBusiness("service_not_found"))
		return
	}
	doctorID, ok := optionalID(c.PostForm("doctorId"))
	if !ok {
		writeError(c, h.log, httperr.ErrBusiness("doctor_not_found"))
		return
	}

	_, err := h.create.Execute(c.Request.Context(), visituc.CreateVisitInput{
		Source:        domain.SourceReception,
		ActorID:       actorID(c),
		FullName:      strings.TrimSpace(c.PostForm("fullName")),
		Phone:         strings.TrimSpace(c.PostForm("phone")),
		ServiceID:     serviceID,
		DoctorID:      doctorID,
		PaymentStatus: domain.ParsePaymentStatus(c.PostForm("paymentStatus")),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.SeeOther(c, "/reception")
}

func (h *ReceptionHandler) ListVisits(c *gin.Context) {
	var (
		visits []models.Visit
		err    error
	)
	if c.Query("all") == "1" {
		visits, err = h.list.All(c.Request.Context())
	} else {
		visits, err = h.list.Today(c.Request.Context())
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, visits)
}

type paymentRequest struct {
	Status string `form:"status" json:"status"`
}

func (h *ReceptionHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_visit_id", "Invalid visit id")
		return
	}

	var req paymentRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		httperr.BadRequest(c, "missing_required_fields", "Missing required fields")
		return
	}

	var actor uint
	if a := actorID(c); a != nil {
		actor = *a
	}

	p, err := h.receipts.SetPaymentStatus(
		c.Request.Context(),
		actor,
		id,
		domain.ParsePaymentStatus(req.Status),
	)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, p)
}

func (h *ReceptionHandler) SearchPatient(c *gin.Context) {
	p, err := h.history.Execute(c.Request.Context(), c.Query("phone"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *ReceptionHandler) ReceiptJSON(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_visit_id", "Invalid visit id")
		return
	}

	r, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, r)
}

func (h *ReceptionHandler) ArchiveReceipt(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_visit_id", "Invalid visit id")
		return
	}

	r, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	key, err := h.archiver.Archive(c.Request.Context(), *r)
	if errors.Is(err, receipts.ErrArchiveDisabled) {
		httperr.Unavailable(c, "archive_disabled", "Receipt archive is not configured")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("visit_id", id).Msg("archive receipt")
		httperr.Internal(c, "archive_failed", "Could not archive receipt")
		return
	}

	httpresp.Created(c, gin.H{"key": key})
}
