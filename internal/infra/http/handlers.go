package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tapinhq/tapin/internal/domain/dashboard"
	"github.com/tapinhq/tapin/internal/domain/faults"
	"github.com/tapinhq/tapin/internal/domain/onboarding"
	"github.com/tapinhq/tapin/internal/domain/reports"
	"github.com/tapinhq/tapin/internal/domain/roles"
	"github.com/tapinhq/tapin/internal/domain/shops"
)

var validate = validator.New()

// Client routes, mirroring the pages of the web app.
const (
	routeOnboarding = "/onboarding"
	routeCreateShop = "/onboarding/create-shop"
	routeDashboard  = "/dashboard"
	routeScan       = "/scan"
)

type Handlers struct {
	resolver  *roles.Resolver
	onboard   *onboarding.Coordinator
	shops     *shops.Service
	shopStore shops.Store
	dash      *dashboard.Service
	loc       *time.Location
	log       *slog.Logger
}

func NewHandlers(
	resolver *roles.Resolver,
	onboard *onboarding.Coordinator,
	shopSvc *shops.Service,
	shopStore shops.Store,
	dash *dashboard.Service,
	loc *time.Location,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		resolver: resolver, onboard: onboard, shops: shopSvc,
		shopStore: shopStore, dash: dash, loc: loc, log: log,
	}
}

// getRole answers "who am I and where do I go next".
func (h *Handlers) getRole(c *gin.Context) {
	id := identityFrom(c)

	role, err := h.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	route := routeOnboarding
	switch role {
	case roles.Customer:
		route = routeScan
	case roles.Owner:
		// An owner without a shop is a valid transient state: setup first.
		shop, err := h.shopStore.FindByOwner(c.Request.Context(), id.ID)
		if err != nil {
			h.fail(c, err)
			return
		}
		if shop == nil {
			route = routeCreateShop
		} else {
			route = routeDashboard
		}
	}

	c.JSON(http.StatusOK, gin.H{"role": role, "route": route})
}

type chooseRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=owner customer"`
}

func (h *Handlers) chooseRole(c *gin.Context) {
	var req chooseRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be owner or customer"})
		return
	}

	id := identityFrom(c)
	role, err := h.onboard.ChooseRole(c.Request.Context(), id, roles.RoleState(req.Role))
	if err != nil {
		h.fail(c, err)
		return
	}

	route := routeScan
	if role == roles.Owner {
		route = routeCreateShop
	}
	c.JSON(http.StatusCreated, gin.H{"role": role, "route": route})
}

type createShopRequest struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Location string `json:"location"`
}

func (h *Handlers) createShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}

	id := identityFrom(c)

	// Shop creation requires the owner account to exist already; the writes
	// of onboarding and setup are strictly ordered.
	role, err := h.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if role != roles.Owner {
		c.JSON(http.StatusForbidden, gin.H{"error": "owner account required", "route": routeOnboarding})
		return
	}

	shop, err := h.shops.Create(c.Request.Context(), id.ID, shops.CreateInput{
		Name:     req.Name,
		Code:     req.Code,
		Location: req.Location,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        shop.ID,
		"name":      shop.Name,
		"shop_code": shop.Code,
		"location":  shop.Location,
		"status":    shop.Status,
		"route":     routeDashboard,
	})
}

func (h *Handlers) getDashboard(c *gin.Context) {
	id := identityFrom(c)

	shop, err := h.shopStore.FindByOwner(c.Request.Context(), id.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if shop == nil {
		// Onboarding incomplete, not an error.
		c.JSON(http.StatusOK, gin.H{"route": routeCreateShop})
		return
	}

	sum, err := h.dash.Summarize(c.Request.Context(), shop.ID, time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shop": gin.H{
			"id":        shop.ID,
			"name":      shop.Name,
			"shop_code": shop.Code,
			"status":    shop.Status,
		},
		"served_today":   sum.ServedToday,
		"active_members": sum.ActiveMembers,
	})
}

func (h *Handlers) dailyReport(c *gin.Context) {
	id := identityFrom(c)

	shop, err := h.shopStore.FindByOwner(c.Request.Context(), id.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if shop == nil {
		h.fail(c, faults.ErrShopNotFound)
		return
	}

	date := time.Now().In(h.loc)
	if q := c.Query("date"); q != "" {
		date, err = time.ParseInLocation("2006-01-02", q, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	sum, err := h.dash.Summarize(c.Request.Context(), shop.ID, date)
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := reports.Daily(shop, sum, date)
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("tapin-%s-%s.xlsx", shop.Code, date.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// fail maps domain sentinels to status codes; everything unmapped is a 500
// and gets logged in full.
func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faults.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, faults.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrAlreadyOnboarded):
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists for this identity"})
	case errors.Is(err, faults.ErrDuplicateShopCode):
		c.JSON(http.StatusConflict, gin.H{"error": "that shop code is already taken"})
	case errors.Is(err, faults.ErrOwnerHasShop):
		c.JSON(http.StatusConflict, gin.H{"error": "you already have a shop"})
	case errors.Is(err, faults.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "record already exists"})
	case errors.Is(err, faults.ErrShopNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no shop yet", "route": routeCreateShop})
	case errors.Is(err, faults.ErrUnavailable):
		h.log.Error("directory unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable, please retry"})
	default:
		h.log.Error("unhandled error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
