// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sara115al/banking-transaction-system/internal/domain"
	"github.com/sara115al/banking-transaction-system/pkg/errorspkg"
	"github.com/sara115al/banking-transaction-system/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
	ListForAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error)
}

// AccountService provides the ownership check for the accounts named in
// the route and the request body.
type AccountService interface {
	Get(ctx context.Context, customerID, accountID int64) (domain.AccountWithHistory, error)
}

// CustomerService provides the customer existence check for transfer routes.
type CustomerService interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service   Service
	accounts  AccountService
	customers CustomerService
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, as AccountService, cs CustomerService) *Handler {
	return &Handler{
		service:   ts,
		accounts:  as,
		customers: cs,
	}
}

type uriRequest struct {
	CustomerID int64 `uri:"customer_id" binding:"required,min=1"`
	AccountID  int64 `uri:"account_id" binding:"required,min=1"`
}

type createRequest struct {
	ToCustomerID int64  `json:"to_customer_id" binding:"required,min=1"`
	ToAccountID  int64  `json:"to_account_id" binding:"required,min=1"`
	Amount       string `json:"amount" binding:"required"`
}

type data struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// List handles http request to get the transfer history for an account.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) {
		return
	}

	if _, err := h.accounts.Get(ctx, uri.CustomerID, uri.AccountID); err != nil {
		respondError(gctx, err)
		return
	}

	transfers, err := h.service.ListForAccount(ctx, uri.AccountID)
	if err != nil {
		respondError(gctx, err)
		return
	}

	type dataTransfers struct {
		Transfers []domain.Transfer `json:"transfers"`
	}

	gctx.JSON(http.StatusOK, struct {
		Data dataTransfers `json:"data,omitempty"`
	}{dataTransfers{transfers}})
}

// Create handles http request to transfer money between two accounts.
// The accounts may belong to the same customer or different customers.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if !h.customerExists(gctx, uri.CustomerID) || !h.customerExists(gctx, req.ToCustomerID) {
		return
	}

	if _, err := h.accounts.Get(ctx, uri.CustomerID, uri.AccountID); err != nil {
		if err == domain.ErrAccountNotFound {
			err = domain.ErrSourceAccountNotFound
		}

		respondError(gctx, err)

		return
	}

	if _, err := h.accounts.Get(ctx, req.ToCustomerID, req.ToAccountID); err != nil {
		if err == domain.ErrAccountNotFound {
			err = domain.ErrDestinationAccountNotFound
		}

		respondError(gctx, err)

		return
	}

	arg := domain.CreateTransferParams{
		FromAccountID: uri.AccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, response{data{result}})
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
	case
		domain.ErrAccountNotFound,
		domain.ErrSourceAccountNotFound,
		domain.ErrDestinationAccountNotFound,
		domain.ErrCustomerNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case
		domain.ErrInvalidAmount,
		domain.ErrInsufficientFunds:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errorspkg.ErrStoreUnavailable:
		gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
