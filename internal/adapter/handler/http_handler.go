package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/core/service"
	"github.com/rl1809/techmart/internal/observability"
)

const idempotencyHeader = "Idempotency-Key"

type HTTPHandler struct {
	store  *service.Storefront
	logger *zap.Logger
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type AddToCartRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// UpdateCartItemRequest carries the quantity exactly as typed; numbers and strings are both accepted.
type UpdateCartItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SelectSuggestionRequest struct {
	Suggestion string `json:"suggestion"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type PromoRequest struct {
	Code string `json:"code"`
}

// SummaryView is the cart totals block, formatted for display.
type SummaryView struct {
	Count    int    `json:"count"`
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	Checkout string `json:"checkout"`
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	SummaryView
}

type SubmissionView struct {
	Status string               `json:"status"`
	Fields []domain.FieldResult `json:"fields,omitempty"`
}

func NewHTTPHandler(store *service.Storefront, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{store: store, logger: logger}
}

// Routes builds the storefront router.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/assets/storefront.css", ServeStylesheet)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/search/suggestions", h.Suggest)

		r.Post("/sessions", h.OpenSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Post("/reload", h.ReloadSession)
			r.Delete("/", h.CloseSession)
			r.Get("/view", h.View)
			r.Get("/notifications", h.Notifications)

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddToCart)
			r.Patch("/cart/items/{id}", h.UpdateCartItem)
			r.Post("/cart/items/{id}/increase", h.stepQuantity(1))
			r.Post("/cart/items/{id}/decrease", h.stepQuantity(-1))
			r.Delete("/cart/items/{id}", h.RemoveFromCart)

			r.Post("/wishlist/{pid}", h.ToggleWishlist)
			r.Post("/compare/open", h.OpenComparison)
			r.Post("/compare/{pid}", h.ToggleCompare)
			r.Post("/live-chat", h.OpenLiveChat)

			r.Post("/search", h.Search)
			r.Post("/search/select", h.SelectSuggestion)

			r.Post("/forms/newsletter", h.SubscribeNewsletter)
			r.Post("/forms/contact", h.SubmitContact)
			r.Post("/forms/contact/validate", h.ValidateField)
			r.Post("/forms/promo", h.ApplyPromo)

			r.Post("/events", h.Dispatch)
		})
	})
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) session(r *http.Request) *service.Session {
	return h.store.Sessions.Open(chi.URLParam(r, "sid"))
}

func (h *HTTPHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	s := h.store.Sessions.New()
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "session opened", Data: h.store.View(s)})
}

func (h *HTTPHandler) ReloadSession(w http.ResponseWriter, r *http.Request) {
	s := h.store.Sessions.Reload(chi.URLParam(r, "sid"))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "session reloaded", Data: h.store.View(s)})
}

func (h *HTTPHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.store.Sessions.Close(chi.URLParam(r, "sid"))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "session closed"})
}

func (h *HTTPHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.store.View(h.session(r))})
}

func (h *HTTPHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.store.Notifications.Active(h.session(r).ID)})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Cart.Cart(r.Context(), h.session(r).ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: cartView(items)})
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decode(w, r, &req) {
		return
	}

	count, err := h.store.Cart.AddToCart(r.Context(), h.session(r).ID, domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "item added", Data: map[string]int{"count": count}})
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if !decode(w, r, &req) {
		return
	}

	summary, err := h.store.Cart.UpdateCartItem(r.Context(), h.session(r).ID, chi.URLParam(r, "id"), rawText(req.Quantity))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: summaryView(summary)})
}

func (h *HTTPHandler) stepQuantity(delta int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := h.store.Cart.StepQuantity(r.Context(), h.session(r).ID, chi.URLParam(r, "id"), delta)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Data: summaryView(summary)})
	}
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Cart.RemoveFromCart(r.Context(), h.session(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "item removed", Data: map[string]int{"count": count}})
}

// ListProducts applies the filter form. Unparseable prices fall back to the open
// bounds, and a zero maximum reads as no maximum.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Categories: nonEmpty(q["category"]),
		Brand:      strings.TrimSpace(q.Get("brand")),
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(q.Get("min-price"))); err == nil {
		filter.MinPrice = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(q.Get("max-price"))); err == nil && !v.IsZero() {
		filter.MaxPrice = &v
	}

	cards, err := h.store.Catalog.Browse(r.Context(), filter, domain.ParseSortKey(q.Get("sort-by")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: cards})
}

func (h *HTTPHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Catalog.Product(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	on := h.store.Shortlist.ToggleWishlist(h.session(r), p)
	writeJSON(w, http.StatusOK, Response{Success: true, Data: map[string]any{"product_id": p.ID, "wishlisted": on}})
}

func (h *HTTPHandler) ToggleCompare(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Catalog.Product(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	button, err := h.store.Shortlist.ToggleCompare(h.session(r), p)
	if err != nil {
		writeJSON(w, statusFor(err), Response{Success: false, Message: err.Error(), Data: button})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: button})
}

func (h *HTTPHandler) OpenComparison(w http.ResponseWriter, r *http.Request) {
	h.store.Shortlist.OpenComparison(h.session(r))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "coming soon"})
}

func (h *HTTPHandler) OpenLiveChat(w http.ResponseWriter, r *http.Request) {
	h.store.Shortlist.OpenLiveChat(h.session(r))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "coming soon"})
}

func (h *HTTPHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.store.Search.Suggest(r.URL.Query().Get("q"))})
}

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.store.Search.Submit(h.session(r), req.Query)
	if err != nil {
		writeJSON(w, statusFor(err), Response{Success: false, Message: err.Error(), Data: result})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

func (h *HTTPHandler) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	var req SelectSuggestionRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.store.Search.SelectSuggestion(h.session(r), req.Suggestion)})
}

func (h *HTTPHandler) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !decode(w, r, &req) {
		return
	}
	op, fields, err := h.store.Forms.SubscribeNewsletter(r.Context(), h.session(r), req.Email, r.Header.Get(idempotencyHeader))
	h.writeSubmission(w, r, op, fields, err)
}

func (h *HTTPHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var form domain.Form
	if !decode(w, r, &form) {
		return
	}
	if form.Name == "" {
		form.Name = "contact"
	}
	op, fields, err := h.store.Forms.SubmitContact(r.Context(), h.session(r), form, r.Header.Get(idempotencyHeader))
	h.writeSubmission(w, r, op, fields, err)
}

// writeSubmission answers 202 while the operation runs, or waits for it when ?wait=true.
func (h *HTTPHandler) writeSubmission(w http.ResponseWriter, r *http.Request, op *service.Operation, fields []domain.FieldResult, err error) {
	if err != nil {
		writeJSON(w, statusFor(err), Response{Success: false, Message: err.Error(), Data: SubmissionView{Status: "rejected", Fields: fields}})
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if err := op.Wait(r.Context()); err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "submitted", Data: SubmissionView{Status: "done", Fields: fields}})
		return
	}
	writeJSON(w, http.StatusAccepted, Response{Success: true, Message: "processing", Data: SubmissionView{Status: "pending", Fields: fields}})
}

func (h *HTTPHandler) ValidateField(w http.ResponseWriter, r *http.Request) {
	var field domain.FormField
	if !decode(w, r, &field) {
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.store.Forms.ValidateField(field)})
}

func (h *HTTPHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if !decode(w, r, &req) {
		return
	}
	promo, ok := h.store.Forms.ApplyPromo(h.session(r), req.Code)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Success: false, Message: "invalid promo code"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: promo})
}

func (h *HTTPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var ev service.Event
	if !decode(w, r, &ev) {
		return
	}
	result, err := h.store.Input.Dispatch(r.Context(), h.session(r), ev)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		observability.FromContext(r.Context()).Error("request failed", zap.Error(err))
		message = "internal error"
	}
	writeJSON(w, status, Response{Success: false, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCompareFull),
		errors.Is(err, service.ErrDuplicateSubmission),
		errors.Is(err, service.ErrFormBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, service.ErrQueryTooShort),
		errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func cartView(items []domain.CartItem) CartView {
	return CartView{Items: items, SummaryView: summaryView(domain.Summarize(items))}
}

func summaryView(s domain.CartSummary) SummaryView {
	return SummaryView{
		Count:    s.ItemCount,
		Subtotal: domain.FormatCurrency(s.Subtotal),
		Tax:      domain.FormatCurrency(s.Tax),
		Total:    domain.FormatCurrency(s.Total),
		Checkout: domain.FormatCurrency(s.Total),
	}
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
