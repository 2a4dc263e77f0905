package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/catalog"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/referral"
	"github.com/shopspring/decimal"
)

const (
	testBusiness = "7f8a1c52-5d0e-4c1b-9d4e-0a6b2f3c4d5e"
	testProperty = "0b1c2d3e-4f50-4617-8293-a4b5c6d7e8f9"
)

type fakeSettlement struct {
	got    domain.SettleInput
	result *domain.SettlementResult
	err    error
}

func (f *fakeSettlement) Settle(ctx context.Context, in domain.SettleInput) (*domain.SettlementResult, error) {
	f.got = in
	return f.result, f.err
}

func (f *fakeSettlement) PropertyLedger(ctx context.Context, businessID, propertyID string) ([]*domain.LedgerEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.LedgerEntry{{ID: "e1", BusinessID: businessID, PropertyID: propertyID, Amount: decimal.NewFromInt(10)}}, nil
}

type fakeCatalog struct {
	price decimal.Decimal
	err   error
}

func (f *fakeCatalog) CreateProperty(ctx context.Context, in catalog.CreatePropertyInput) (*domain.Listing, error) {
	f.price = in.BasePrice
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Listing{ID: testProperty, Kind: domain.KindProperty, BusinessID: in.BusinessID, Price: in.BasePrice}, nil
}

func (f *fakeCatalog) AddSubProperty(ctx context.Context, businessID, propertyID string, price decimal.Decimal) (*catalog.Result, error) {
	f.price = price
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.Result{Property: &domain.Listing{ID: propertyID, Kind: domain.KindProperty}}, nil
}

func (f *fakeCatalog) UpdateSubPropertyPrice(ctx context.Context, businessID, subPropertyID string, price decimal.Decimal) (*catalog.Result, error) {
	f.price = price
	return &catalog.Result{}, f.err
}

type fakeReferral struct {
	outcome *referral.Outcome
	err     error
}

func (f *fakeReferral) EvaluateReferralReward(ctx context.Context, agentID string) (*referral.Outcome, error) {
	return f.outcome, f.err
}

func newTestServer(s *fakeSettlement, c *fakeCatalog, r *fakeReferral) http.Handler {
	return NewRouter(NewHandler(s, c, r), nil, nil)
}

func do(t *testing.T, h http.Handler, method, path, business, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if business != "" {
		req.Header.Set(BusinessHeader, business)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestSettle_PassesBusinessFromHeader(t *testing.T) {
	s := &fakeSettlement{result: &domain.SettlementResult{
		Property:    &domain.Listing{ID: testProperty, Kind: domain.KindProperty, PaymentStatus: domain.PaymentPaid},
		Transaction: &domain.LedgerEntry{ID: "tx", Service: domain.ServiceSale, Amount: decimal.NewFromInt(1000)},
	}}
	h := newTestServer(s, &fakeCatalog{}, &fakeReferral{})

	rec := do(t, h, http.MethodPost, "/v1/settlements", testBusiness,
		`{"property_id":"`+testProperty+`","amount":"1000.00","buyer_ref":"buyer-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if s.got.BusinessID != testBusiness {
		t.Fatalf("business = %q", s.got.BusinessID)
	}
	if !s.got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("amount = %s", s.got.Amount)
	}
	var resp SettleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Transaction == nil || resp.Transaction.Amount != "1000.00" {
		t.Fatalf("transaction = %+v", resp.Transaction)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestSettle_RequiresBusinessHeader(t *testing.T) {
	s := &fakeSettlement{}
	h := newTestServer(s, &fakeCatalog{}, &fakeReferral{})

	for _, business := range []string{"", "not-a-uuid"} {
		rec := do(t, h, http.MethodPost, "/v1/settlements", business,
			`{"property_id":"`+testProperty+`","amount":"10"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("business %q: status = %d", business, rec.Code)
		}
		if got := decodeError(t, rec).Code; got != string(domain.CodeUnauthorized) {
			t.Fatalf("code = %s", got)
		}
	}
}

func TestSettle_RejectsBadBodies(t *testing.T) {
	h := newTestServer(&fakeSettlement{}, &fakeCatalog{}, &fakeReferral{})

	bodies := map[string]string{
		"not json":        `{`,
		"unknown field":   `{"property_id":"` + testProperty + `","amount":"1","extra":1}`,
		"missing amount":  `{"property_id":"` + testProperty + `"}`,
		"bad property id": `{"property_id":"abc","amount":"1"}`,
		"amount not num":  `{"property_id":"` + testProperty + `","amount":"ten"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/settlements", testBusiness, body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != string(domain.CodeInvalidInput) {
				t.Fatalf("code = %s", got)
			}
		})
	}
}

func TestSettle_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   domain.ErrorCode
	}{
		{domain.NewError(domain.CodeNotFound, "property not found", nil), http.StatusNotFound, domain.CodeNotFound},
		{domain.ErrAlreadyPaid, http.StatusBadRequest, domain.CodeAlreadyPaid},
		{domain.ErrAmountMismatch, http.StatusBadRequest, domain.CodeAmountMismatch},
		{domain.ErrInvalidInput, http.StatusBadRequest, domain.CodeInvalidInput},
		{domain.ErrUnauthorized, http.StatusUnauthorized, domain.CodeUnauthorized},
		{domain.NewError(domain.CodeInternal, "boom", errors.New("db down")), http.StatusInternalServerError, domain.CodeInternal},
		{errors.New("raw"), http.StatusInternalServerError, domain.CodeInternal},
	}
	for _, tc := range cases {
		s := &fakeSettlement{err: tc.err}
		h := newTestServer(s, &fakeCatalog{}, &fakeReferral{})
		rec := do(t, h, http.MethodPost, "/v1/settlements", testBusiness,
			`{"property_id":"`+testProperty+`","amount":"1"}`)
		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		resp := decodeError(t, rec)
		if resp.Code != string(tc.code) {
			t.Fatalf("%v: code = %s, want %s", tc.err, resp.Code, tc.code)
		}
		if tc.status == http.StatusInternalServerError && strings.Contains(resp.Message, "db down") {
			t.Fatalf("internal cause leaked: %q", resp.Message)
		}
	}
}

func TestPropertyLedger(t *testing.T) {
	h := newTestServer(&fakeSettlement{}, &fakeCatalog{}, &fakeReferral{})

	rec := do(t, h, http.MethodGet, "/v1/properties/"+testProperty+"/ledger", testBusiness, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var entries []LedgerEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].PropertyID != testProperty || entries[0].Amount != "10.00" {
		t.Fatalf("entries = %+v", entries)
	}

	rec = do(t, h, http.MethodGet, "/v1/properties/nope/ledger", testBusiness, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	c := &fakeCatalog{}
	h := newTestServer(&fakeSettlement{}, c, &fakeReferral{})

	rec := do(t, h, http.MethodPost, "/v1/properties", testBusiness, `{"base_price":"250.50"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !c.price.Equal(decimal.RequireFromString("250.50")) {
		t.Fatalf("base price = %s", c.price)
	}

	rec = do(t, h, http.MethodPost, "/v1/properties/"+testProperty+"/sub-properties", testBusiness, `{"price":"40"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add sub status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPut, "/v1/sub-properties/"+testProperty+"/price", testBusiness, `{"price":"55"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update price status = %d", rec.Code)
	}
	if !c.price.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("price = %s", c.price)
	}

	c.err = domain.ErrAlreadyPaid
	rec = do(t, h, http.MethodPut, "/v1/sub-properties/"+testProperty+"/price", testBusiness, `{"price":"55"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("paid sub status = %d", rec.Code)
	}
}

func TestReferralReward(t *testing.T) {
	r := &fakeReferral{outcome: &referral.Outcome{Rewarded: false, Reason: referral.ReasonNoSales}}
	h := newTestServer(&fakeSettlement{}, &fakeCatalog{}, r)

	rec := do(t, h, http.MethodPost, "/v1/agents/"+testProperty+"/referral-reward", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp ReferralRewardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Rewarded || resp.Reason != referral.ReasonNoSales {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestHealthz(t *testing.T) {
	h := NewRouter(NewHandler(&fakeSettlement{}, &fakeCatalog{}, &fakeReferral{}), nil, func(context.Context) error {
		return errors.New("down")
	})
	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
