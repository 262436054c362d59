// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/errorspkg"
	"github.com/sara115al/banking-transaction-system/pkg/web"
)

// Service provides service layer interface needed by customer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package customerdelivery
type Service interface {
	Create(ctx context.Context, name string) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id int64, name string) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns customer handler.
func NewHandler(cs Service) *Handler {
	return &Handler{service: cs}
}

type data struct {
	Customer domain.Customer `json:"customer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type uriRequest struct {
	CustomerID int64 `uri:"customer_id" binding:"required,min=1"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles http request to list all customers.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	customers, err := h.service.List(ctx)
	if err != nil {
		respondError(gctx, err)
		return
	}

	type dataCustomers struct {
		Customers []domain.Customer `json:"customers"`
	}

	gctx.JSON(http.StatusOK, struct {
		Data dataCustomers `json:"data,omitempty"`
	}{dataCustomers{customers}})
}

// Create handles http request to create a customer.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req nameRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Create(ctx, req.Name)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{data{customer}})
}

// Get handles http request to get a single customer.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Get(ctx, req.CustomerID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{data{customer}})
}

// Update handles http request to rename a customer.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req nameRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	customer, err := h.service.Update(ctx, uri.CustomerID, req.Name)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{data{customer}})
}

// Delete handles http request to delete a customer and its accounts.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if err := h.service.Delete(ctx, req.CustomerID); err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}

func respondError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrCustomerNotFound, domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case errorspkg.ErrStoreUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}
