package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"track_swiftly/internal/middleware"
	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
	"track_swiftly/internal/services"
)

type PackageController struct {
	packages *services.PackageService
}

func NewPackageController(packages *services.PackageService) *PackageController {
	return &PackageController{packages: packages}
}

type createPackageInput struct {
	TrackingNumber    string   `json:"trackingNumber" binding:"required"`
	SenderName        string   `json:"senderName" binding:"required"`
	SenderAddress     string   `json:"senderAddress" binding:"required"`
	ReceiverName      string   `json:"receiverName" binding:"required"`
	ReceiverAddress   string   `json:"receiverAddress" binding:"required"`
	ReceiverPhone     string   `json:"receiverPhone" binding:"required,mobile_in"`
	CurrentLocation   *string  `json:"currentLocation"`
	EstimatedDelivery string   `json:"estimatedDelivery" binding:"required"`
	Weight            *float64 `json:"weight" binding:"required,gte=0"`
	Description       *string  `json:"description"`
	CustomerID        *string  `json:"customerId"`
	DeliveryStaffID   *string  `json:"deliveryStaffId"`
}

type updateStatusInput struct {
	Status   string  `json:"status" binding:"required"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

// isoLayouts are the ISO-8601 forms accepted for estimatedDelivery.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List handles GET /api/packages?status=&customerId=
func (pc *PackageController) List(c *gin.Context) {
	filter := policy.PackageFilter{
		CustomerID: c.Query("customerId"),
		Status:     models.PackageStatus(c.Query("status")),
	}
	pkgs, err := pc.packages.List(c.Request.Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkgs)
}

func (pc *PackageController) Get(c *gin.Context) {
	pkg, err := pc.packages.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// Track is the public lookup by tracking number.
func (pc *PackageController) Track(c *gin.Context) {
	pkg, err := pc.packages.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (pc *PackageController) Create(c *gin.Context) {
	var input createPackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	eta, ok := parseISODate(input.EstimatedDelivery)
	if !ok {
		respondError(c, services.NewValidationError("estimatedDelivery", "Valid estimated delivery date is required"))
		return
	}

	pkg, err := pc.packages.Create(c.Request.Context(), middleware.ActorFrom(c), services.CreatePackageInput{
		TrackingNumber:    input.TrackingNumber,
		SenderName:        input.SenderName,
		SenderAddress:     input.SenderAddress,
		ReceiverName:      input.ReceiverName,
		ReceiverAddress:   input.ReceiverAddress,
		ReceiverPhone:     input.ReceiverPhone,
		CurrentLocation:   input.CurrentLocation,
		EstimatedDelivery: eta,
		Weight:            *input.Weight,
		Description:       input.Description,
		CustomerID:        input.CustomerID,
		DeliveryStaffID:   input.DeliveryStaffID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (pc *PackageController) UpdateStatus(c *gin.Context) {
	var input updateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	pkg, err := pc.packages.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), services.StatusUpdateInput{
		Status:   models.PackageStatus(input.Status),
		Location: input.Location,
		Notes:    input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (pc *PackageController) Delete(c *gin.Context) {
	if err := pc.packages.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (pc *PackageController) History(c *gin.Context) {
	entries, err := pc.packages.History(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
