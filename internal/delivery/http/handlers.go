package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, ok := parseMoney(w, req.Amount, "amount")
	if !ok {
		return
	}

	result, err := h.settlement.Settle(r.Context(), domain.SettleInput{
		PropertyID:    req.PropertyID,
		SubPropertyID: req.SubPropertyID,
		BusinessID:    businessFromContext(r.Context()),
		AgentID:       req.AgentID,
		BuyerRef:      req.BuyerRef,
		Amount:        amount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettleResponse(result))
}

func (h *Handler) propertyLedger(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := uuidParam(w, r, "propertyID")
	if !ok {
		return
	}
	entries, err := h.settlement.PropertyLedger(r.Context(), businessFromContext(r.Context()), propertyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerEntryResponses(entries))
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if !h.decode(w, r, &req) {
		return
	}
	base, ok := parseMoney(w, req.BasePrice, "base_price")
	if !ok {
		return
	}

	property, err := h.catalog.CreateProperty(r.Context(), catalog.CreatePropertyInput{
		BusinessID: businessFromContext(r.Context()),
		AgentID:    req.AgentID,
		BasePrice:  base,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingResponse(property))
}

func (h *Handler) addSubProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := uuidParam(w, r, "propertyID")
	if !ok {
		return
	}
	var req PriceRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, ok := parseMoney(w, req.Price, "price")
	if !ok {
		return
	}

	result, err := h.catalog.AddSubProperty(r.Context(), businessFromContext(r.Context()), propertyID, price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCatalogResponse(result))
}

func (h *Handler) updateSubPropertyPrice(w http.ResponseWriter, r *http.Request) {
	subPropertyID, ok := uuidParam(w, r, "subPropertyID")
	if !ok {
		return
	}
	var req PriceRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, ok := parseMoney(w, req.Price, "price")
	if !ok {
		return
	}

	result, err := h.catalog.UpdateSubPropertyPrice(r.Context(), businessFromContext(r.Context()), subPropertyID, price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCatalogResponse(result))
}

func (h *Handler) evaluateReferralReward(w http.ResponseWriter, r *http.Request) {
	agentID, ok := uuidParam(w, r, "agentID")
	if !ok {
		return
	}
	outcome, err := h.referral.EvaluateReferralReward(r.Context(), agentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReferralRewardResponse(outcome))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.CodeInvalidInput), "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.CodeInvalidInput), err.Error())
		return false
	}
	return true
}

func parseMoney(w http.ResponseWriter, raw, field string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.CodeInvalidInput), field+" must be a decimal string")
		return decimal.Zero, false
	}
	return d, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if _, err := uuid.Parse(value); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.CodeInvalidInput), name+" must be a uuid")
		return "", false
	}
	return value, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code, msg := mapDomainError(err)
	var derr *domain.Error
	if status == http.StatusInternalServerError && !errors.As(err, &derr) {
		slog.Error("unclassified error", "error", err)
	}
	writeError(w, status, code, msg)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
