// Package httpapi реализует внешний HTTP API сервиса: управление каталогом,
// приём заказов и запуск их обработки.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/badrothmani2021/merjane/internal/domain"
	"github.com/badrothmani2021/merjane/internal/service/fulfillment"
)

// Handler обрабатывает HTTP запросы внешнего API.
type Handler struct {
	products  domain.ProductRepository
	orders    domain.OrderRepository
	processor *fulfillment.Processor
	logger    *log.Entry
	now       func() time.Time
}

// NewHandler создаёт HTTP handler поверх хранилищ и движка обработки.
func NewHandler(products domain.ProductRepository, orders domain.OrderRepository, processor *fulfillment.Processor, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{
		products:  products,
		orders:    orders,
		processor: processor,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Router собирает маршруты API.
func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /products", h.createProduct)
	mux.HandleFunc("GET /products/{id}", h.getProduct)
	mux.HandleFunc("GET /products", h.listProducts)
	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("POST /orders/{id}/process", h.processOrder)
	return mux
}

type productRequest struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Available    int        `json:"available"`
	LeadTimeDays int        `json:"lead_time_days"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	SeasonStart  *time.Time `json:"season_start_date,omitempty"`
	SeasonEnd    *time.Time `json:"season_end_date,omitempty"`
}

type productResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Available    int        `json:"available"`
	LeadTimeDays int        `json:"lead_time_days"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	SeasonStart  *time.Time `json:"season_start_date,omitempty"`
	SeasonEnd    *time.Time `json:"season_end_date,omitempty"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:           product.ID,
		Name:         product.Name,
		Type:         product.Type,
		Available:    product.Available,
		LeadTimeDays: product.LeadTimeDays,
		ExpiryDate:   product.ExpiryDate,
		SeasonStart:  product.SeasonStart,
		SeasonEnd:    product.SeasonEnd,
		Version:      product.Version,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

type orderRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type orderResponse struct {
	ID        string            `json:"id"`
	Items     []productResponse `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]productResponse, 0, len(order.Items))
	for _, item := range order.Items {
		if item == nil {
			continue
		}
		items = append(items, toProductResponse(*item))
	}
	return orderResponse{
		ID:        order.ID,
		Items:     items,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := h.now()
	product := domain.Product{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Type:         req.Type,
		Available:    req.Available,
		LeadTimeDays: req.LeadTimeDays,
		ExpiryDate:   req.ExpiryDate,
		SeasonStart:  req.SeasonStart,
		SeasonEnd:    req.SeasonEnd,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		h.writeError(w, http.StatusBadRequest, errors.Join(errs...).Error())
		return
	}

	if err := h.products.Create(product); err != nil {
		h.logger.WithError(err).Error("failed to create product")
		h.writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.WithFields(log.Fields{
		"product_id":   product.ID,
		"product_type": product.Type,
	}).Info("product created")
	h.writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.products.Get(id)
	if errors.Is(err, domain.ErrProductNotFound) {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("product not found with id: %s", id))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("product_id", id).Error("failed to load product")
		h.writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	h.writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(0)
	if err != nil {
		h.logger.WithError(err).Error("failed to list products")
		h.writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}
	h.writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := h.now()
	items := make([]*domain.Product, 0, len(req.ItemIDs))
	for _, itemID := range req.ItemIDs {
		items = append(items, &domain.Product{ID: itemID})
	}
	order := domain.Order{
		ID:        uuid.NewString(),
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.orders.Create(order); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			h.writeError(w, http.StatusBadRequest, "order references unknown product")
			return
		}
		h.logger.WithError(err).Error("failed to create order")
		h.writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	stored, err := h.orders.Get(order.ID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", order.ID).Error("failed to load created order")
		h.writeError(w, http.StatusInternalServerError, "failed to load created order")
		return
	}

	h.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
	}).Info("order created")
	h.writeJSON(w, http.StatusCreated, toOrderResponse(stored))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.orders.Get(id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order not found with id: %s", id))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("order_id", id).Error("failed to load order")
		h.writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// processOrder запускает обработку заказа. Успешный ответ несёт только
// идентификатор заказа: мутации остатков и уведомления — побочные эффекты.
func (h *Handler) processOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.orders.Get(id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("order not found with id: %s", id))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("order_id", id).Error("failed to load order")
		h.writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	if err := h.processor.Process(&order); err != nil {
		if domain.IsInvalidProductType(err) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.WithError(err).WithField("order_id", id).Error("order processing failed")
		h.writeError(w, http.StatusInternalServerError, "order processing failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
