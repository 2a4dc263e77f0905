package metrics

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics holds the settlement engine's Prometheus collectors. A nil
// *SettlementMetrics records nothing.
type SettlementMetrics struct {
	// Attempts by listing kind and outcome (ok or an error code)
	SettlementsTotal *prometheus.CounterVec
	// Settled sale proceeds
	SettledAmountTotal *prometheus.CounterVec
	// Commissions paid, by ledger service
	CommissionAmountTotal *prometheus.CounterVec
	// Sub-properties swept by whole-property sales
	SubPropertiesSettledTotal prometheus.Counter

	SettlementDuration *prometheus.HistogramVec

	ReferralRewardsTotal  prometheus.Counter
	CatalogRepricingTotal *prometheus.CounterVec

	ErrorsTotal *prometheus.CounterVec
}

func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	factory := promauto.With(reg)
	return &SettlementMetrics{
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_total",
				Help: "Settlement attempts by listing kind and result",
			},
			[]string{"kind", "result"},
		),
		SettledAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_amount_total",
				Help: "Sale proceeds credited to businesses",
			},
			[]string{"kind"},
		),
		CommissionAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_commission_amount_total",
				Help: "Commission credited to agents by ledger service",
			},
			[]string{"service"},
		),
		SubPropertiesSettledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_sub_properties_swept_total",
				Help: "Sub-properties marked sold by whole-property settlements",
			},
		),
		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_duration_seconds",
				Help:    "Settlement latency including commit",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),
		ReferralRewardsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "referral_rewards_paid_total",
				Help: "One-off referral bonuses paid to referrers",
			},
		),
		CatalogRepricingTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_repricing_total",
				Help: "Parent price recalculations by trigger",
			},
			[]string{"trigger"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_errors_total",
				Help: "Failed operations by operation and error code",
			},
			[]string{"operation", "code"},
		),
	}
}

func (m *SettlementMetrics) RecordSettlement(kind domain.ListingKind, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(domain.CodeOf(err))
		m.ErrorsTotal.WithLabelValues("settle", result).Inc()
	}
	m.SettlementsTotal.WithLabelValues(string(kind), result).Inc()
	m.SettlementDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
}

func (m *SettlementMetrics) RecordSettled(result *domain.SettlementResult) {
	if m == nil || result == nil || result.Transaction == nil {
		return
	}
	amount, _ := result.Transaction.Amount.Float64()
	m.SettledAmountTotal.WithLabelValues(string(result.Target().Kind)).Add(amount)
	for _, entry := range result.Commissions {
		v, _ := entry.Amount.Float64()
		m.CommissionAmountTotal.WithLabelValues(string(entry.Service)).Add(v)
	}
	if result.SweptSubProperties > 0 {
		m.SubPropertiesSettledTotal.Add(float64(result.SweptSubProperties))
	}
}

func (m *SettlementMetrics) RecordReferralReward() {
	if m == nil {
		return
	}
	m.ReferralRewardsTotal.Inc()
}

func (m *SettlementMetrics) RecordRepricing(trigger string) {
	if m == nil {
		return
	}
	m.CatalogRepricingTotal.WithLabelValues(trigger).Inc()
}

func (m *SettlementMetrics) RecordError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, string(domain.CodeOf(err))).Inc()
}
