// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, customerID int64, initialDeposit string) (domain.AccountWithHistory, error)
	Get(ctx context.Context, customerID, accountID int64) (domain.AccountWithHistory, error)
	List(ctx context.Context, customerID int64) ([]domain.AccountWithHistory, error)
	SetBalance(ctx context.Context, customerID, accountID int64, balance string) (domain.AccountWithHistory, error)
	Delete(ctx context.Context, customerID, accountID int64) error
}

// CustomerService provides the customer existence check needed to scope
// account routes.
type CustomerService interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service   Service
	customers CustomerService
}

// NewHandler returns account handler.
func NewHandler(as Service, cs CustomerService) *Handler {
	return &Handler{
		service:   as,
		customers: cs,
	}
}

type data struct {
	Account domain.AccountWithHistory `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

type customerURI struct {
	CustomerID int64 `uri:"customer_id" binding:"required,min=1"`
}

type accountURI struct {
	CustomerID int64 `uri:"customer_id" binding:"required,min=1"`
	AccountID  int64 `uri:"account_id" binding:"required,min=1"`
}

type createRequest struct {
	InitialDeposit string `json:"initial_deposit"`
}

type setBalanceRequest struct {
	Balance string `json:"balance" binding:"required"`
}

// List handles http request to list a customer's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	accounts, err := h.service.List(ctx, uri.CustomerID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	type dataAccounts struct {
		Accounts []domain.AccountWithHistory `json:"accounts"`
	}

	gctx.JSON(http.StatusOK, struct {
		Data dataAccounts `json:"data,omitempty"`
	}{dataAccounts{accounts}})
}

// Create handles http request to create an account with an optional
// initial deposit.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	account, err := h.service.Create(ctx, uri.CustomerID, req.InitialDeposit)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{data{account}})
}

// Get handles http request to get a single account with its history.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	account, err := h.service.Get(ctx, uri.CustomerID, uri.AccountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{data{account}})
}

// GetBalance handles http request to read an account's balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	account, err := h.service.Get(ctx, uri.CustomerID, uri.AccountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	type dataBalance struct {
		Balance string `json:"balance"`
	}

	gctx.JSON(http.StatusOK, struct {
		Data dataBalance `json:"data,omitempty"`
	}{dataBalance{account.Balance}})
}

// SetBalance handles http request to administratively set an account's balance.
func (h *Handler) SetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req setBalanceRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	account, err := h.service.SetBalance(ctx, uri.CustomerID, uri.AccountID, req.Balance)
	if err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{data{account}})
}

// Delete handles http request to delete an account.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	if err := h.service.Delete(ctx, uri.CustomerID, uri.AccountID); err != nil {
		respondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}

func (h *Handler) customerExists(gctx *gin.Context, customerID int64) bool {
	exists, err := h.customers.Exists(gctx.Request.Context(), customerID)
	if err != nil {
		respondError(gctx, err)
		return false
	}

	if !exists {
		gctx.JSON(http.StatusNotFound, web.Error(domain.ErrCustomerNotFound))
		return false
	}

	return true
}

func respondError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotFound, domain.ErrCustomerNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrInvalidAmount:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
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
