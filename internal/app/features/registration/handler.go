// internal/app/features/registration/handler.go

// Package registration takes public sign-up requests and stages them as
// pending submissions for admin review. Nothing here writes to the
// members collection; only an approval does that.
package registration

import (
	"net/http"
	"strings"
	"time"

	submissionstore "github.com/dalemusser/kinhub/internal/app/store/submissions"
	"github.com/dalemusser/kinhub/internal/app/system/httpjson"
	"github.com/dalemusser/kinhub/internal/app/system/normalize"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds the registration feature dependencies.
type Handler struct {
	Subs *submissionstore.Store
	Log  *zap.Logger
}

// NewHandler constructs a registration Handler.
func NewHandler(subs *submissionstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Subs: subs, Log: logger}
}

// registerRequest is the public sign-up payload.
type registerRequest struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`

	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"dateOfBirth"`

	Email       string         `json:"email"`
	PhoneNumber string         `json:"phoneNumber"`
	Occupation  string         `json:"occupation"`
	Education   string         `json:"education"`
	Address     models.Address `json:"address"`
	VanshNumber string         `json:"vanshNumber"`
	Notes       string         `json:"notes"`

	FatherSerNo int `json:"fatherSerNo"`
	SpouseSerNo int `json:"spouseSerNo"`
}

// HandleRegister handles POST /api/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalize.Email(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if req.FirstName == "" || req.LastName == "" {
		httpjson.Error(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	if req.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.PhoneNumber == "" {
		httpjson.Error(w, http.StatusBadRequest, "phone number is required")
		return
	}

	sub := models.PendingSubmission{
		Kind: models.KindHierarchyForm,
		Form: models.SubmissionForm{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			Gender:      req.Gender,
			DateOfBirth: req.DateOfBirth,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Occupation:  req.Occupation,
			Education:   req.Education,
			Address:     req.Address,
			VanshNumber: req.VanshNumber,
			Notes:       req.Notes,
			FatherSerNo: req.FatherSerNo,
			SpouseSerNo: req.SpouseSerNo,
		},
		SubmittedByName:  req.FirstName + " " + req.LastName,
		SubmittedByEmail: req.Email,
	}

	created, err := h.Subs.Insert(r.Context(), sub)
	if err != nil {
		h.Log.Error("stage registration failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not submit registration")
		return
	}

	h.Log.Info("registration staged",
		zap.String("submission_id", created.ID.Hex()),
		zap.String("email", created.Form.Email))

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"id":      created.ID.Hex(),
		"status":  created.Status,
		"message": "registration submitted for review",
	})
}
