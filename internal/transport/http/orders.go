package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/app"
	"github.com/yagoscalfoni/order-processing/internal/domain"
)

const maxRequestBody = 1 << 20

// OrderCreatorService is the minimal interface needed to create an order.
type OrderCreatorService interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput, creator app.OrderCreator) (app.CreateOrderResult, error)
}

// OrderReader loads a stored order with its items.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id int64) (domain.Order, error)
}

// OutcomeRecorder counts request outcomes per persistence strategy.
type OutcomeRecorder interface {
	OrderCreated(strategy string)
	OrderFailed(strategy, reason string)
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(string) {}
func (nopRecorder) OrderFailed(string, string) {}

// HandleCreateOrder returns an HTTP handler creating orders through creator.
func HandleCreateOrder(svc OrderCreatorService, creator app.OrderCreator, strategy string, rec OutcomeRecorder) http.HandlerFunc {
	if rec == nil {
		rec = nopRecorder{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := decodeStrict(http.MaxBytesReader(w, r.Body, maxRequestBody), &req); err != nil {
			rec.OrderFailed(strategy, reasonBadRequest)
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.CreateOrder(r.Context(), req.input(), creator)
		if err != nil {
			failure := classifyError(err)
			rec.OrderFailed(strategy, failure.reason)
			failure.write(w)
			return
		}
		rec.OrderCreated(strategy)

		writeJSON(w, http.StatusOK, createOrderResponse{
			OrderID:      res.OrderID,
			CreatedAtUTC: res.CreatedAt.UTC(),
			TotalAmount:  json.Number(res.TotalAmount.String()),
			Currency:     res.Currency,
		})
	}
}

// HandleGetOrder returns an HTTP handler reading back a stored order.
func HandleGetOrder(reader OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		order, err := reader.GetOrderByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

var errTrailingData = errors.New("unexpected data after request body")

// decodeStrict decodes exactly one JSON value with no unknown fields.
func decodeStrict(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

type createOrderRequest struct {
	CustomerID uuid.UUID          `json:"customerId"`
	Currency   string             `json:"currency"`
	Items      []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (r createOrderRequest) input() app.CreateOrderInput {
	items := make([]app.OrderItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, app.OrderItemInput{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return app.CreateOrderInput{
		CustomerID: r.CustomerID,
		Currency:   r.Currency,
		Items:      items,
	}
}

type createOrderResponse struct {
	OrderID      int64       `json:"orderId"`
	CreatedAtUTC time.Time   `json:"createdAtUtc"`
	TotalAmount  json.Number `json:"totalAmount"`
	Currency     string      `json:"currency"`
}

type orderResponse struct {
	ID           int64               `json:"id"`
	CustomerID   uuid.UUID           `json:"customerId"`
	CreatedAtUTC time.Time           `json:"createdAtUtc"`
	TotalAmount  json.Number         `json:"totalAmount"`
	Currency     string              `json:"currency"`
	Items        []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID        int64       `json:"id"`
	SKU       string      `json:"sku"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

func newOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:        item.ID,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: json.Number(item.UnitPrice.String()),
		})
	}
	return orderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CreatedAtUTC: order.CreatedAt.UTC(),
		TotalAmount:  json.Number(order.TotalAmount.String()),
		Currency:     order.Currency,
		Items:        items,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
