package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/aklinic/internal/audit"
	"github.com/BruksfildServices01/aklinic/internal/auth"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/httpresp"
	"github.com/BruksfildServices01/aklinic/internal/models"
	"github.com/BruksfildServices01/aklinic/internal/receipts"
	"github.com/BruksfildServices01/aklinic/internal/refcache"
	visituc "github.com/BruksfildServices01/aklinic/internal/usecase/visit"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db        *gorm.DB
	analytics *visituc.Analytics
	list      *visituc.ListVisits
	refs      *refcache.Cache
	audit     audit.Recorder
	calendar  visituc.Calendar
	log       zerolog.Logger
}

func NewAdminHandler(
	db *gorm.DB,
	analytics *visituc.Analytics,
	list *visituc.ListVisits,
	refs *refcache.Cache,
	audit audit.Recorder,
	calendar visituc.Calendar,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		db:        db,
		analytics: analytics,
		list:      list,
		refs:      refs,
		audit:     audit,
		calendar:  calendar,
		log:       log,
	}
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Page(c *gin.Context) {
	view, err := h.analytics.Execute(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("load analytics")
		c.String(http.StatusInternalServerError, "Analytics unavailable")
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":     "Admin",
		"User":      identity(c),
		"Analytics": view,
	})
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	view, err := h.analytics.Execute(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, view)
}

func (h *AdminHandler) Export(c *gin.Context) {
	visits, err := h.list.Today(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := receipts.WriteVisitsXLSX(&buf, visits, h.calendar.Loc); err != nil {
		h.log.Error().Err(err).Msg("export visits")
		httperr.Internal(c, "export_failed", "Could not export visits")
		return
	}

	day, _ := h.calendar.Today()
	name := fmt.Sprintf("visits-%s.xlsx", day.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ======================================================
// SERVICES
// ======================================================

type serviceRequest struct {
	Name   *string `json:"name"`
	Price  *int    `json:"price"`
	Active *bool   `json:"active"`
}

func (h *AdminHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&services).Error; err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, services)
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.Price == nil || *req.Price < 0 {
		httperr.BadRequest(c, "missing_required_fields", "Missing required fields")
		return
	}

	svc := models.Service{
		Name:   strings.TrimSpace(*req.Name),
		Price:  *req.Price,
		Active: req.Active == nil || *req.Active,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		writeError(c, h.log, err)
		return
	}

	h.refs.Invalidate()
	h.record(c, "service_created", "service", svc.ID, nil)

	httpresp.Created(c, svc)
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id")
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_body", "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	var svc models.Service
	if err := h.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found")
			return
		}
		writeError(c, h.log, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "missing_required_fields", "Missing required fields")
			return
		}
		updates["name"] = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_price", "Invalid price")
			return
		}
		updates["price"] = *req.Price
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&svc).Updates(updates).Error; err != nil {
			writeError(c, h.log, err)
			return
		}
		h.refs.Invalidate()
		h.record(c, "service_updated", "service", svc.ID, updates)

		if err := h.db.WithContext(ctx).First(&svc, id).Error; err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	httpresp.OK(c, svc)
}

// ======================================================
// DOCTORS
// ======================================================

type doctorRequest struct {
	Name      string  `json:"name"`
	Specialty *string `json:"specialty"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
}

func (h *AdminHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.refs.Doctors(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, doctors)
}

// CreateDoctor also creates the DOCTOR login when an email is given.
func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var req doctorRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		httperr.BadRequest(c, "missing_required_fields", "Missing required fields")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && len(req.Password) < 8 {
		httperr.BadRequest(c, "weak_password", "Password must have at least 8 characters")
		return
	}

	doctor := models.Doctor{
		Name:      strings.TrimSpace(req.Name),
		Specialty: req.Specialty,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if email != "" {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("email = ?", email).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return httperr.ErrBusiness("email_taken")
			}

			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				return err
			}

			user := models.User{
				Name:         doctor.Name,
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleDoctor,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			doctor.UserID = &user.ID
		}

		return tx.Create(&doctor).Error
	})
	if httperr.IsBusiness(err, "email_taken") {
		httperr.Conflict(c, "email_taken", "Email already in use")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.refs.Invalidate()
	h.record(c, "doctor_created", "doctor", doctor.ID, nil)

	httpresp.Created(c, doctor)
}

func (h *AdminHandler) record(c *gin.Context, action, entity string, id uint, metadata any) {
	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   action,
		Entity:   entity,
		EntityID: &id,
		Metadata: metadata,
	})
}
