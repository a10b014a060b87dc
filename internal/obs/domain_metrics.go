package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ReceiptsTotal counts receipt requests by outcome (ok, cached, invalid, error).
	ReceiptsTotal *prometheus.CounterVec
	// DiscountTotal accumulates granted discount amounts by source (campaign, coupon).
	DiscountTotal *prometheus.CounterVec
	// ReceiptCacheTotal counts receipt cache lookups by result (hit, miss, error).
	ReceiptCacheTotal *prometheus.CounterVec
	// PromotionChangesTotal counts campaign and coupon mutations.
	PromotionChangesTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers checkout-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ReceiptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_total",
			Help:      "Count of receipt requests by outcome.",
		}, []string{"result"})
		DiscountTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_total",
			Help:      "Sum of discount amounts granted on printed receipts.",
		}, []string{"source"})
		ReceiptCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_cache_total",
			Help:      "Receipt cache lookups by result.",
		}, []string{"result"})
		PromotionChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_changes_total",
			Help:      "Campaign and coupon mutations by kind and action.",
		}, []string{"kind", "action"})

		ReceiptsTotal = registerOrReuse(reg, ReceiptsTotal)
		DiscountTotal = registerOrReuse(reg, DiscountTotal)
		ReceiptCacheTotal = registerOrReuse(reg, ReceiptCacheTotal)
		PromotionChangesTotal = registerOrReuse(reg, PromotionChangesTotal)
	})
}

// CountReceipt increments the receipt outcome counter when domain metrics are registered.
func CountReceipt(result string) {
	if ReceiptsTotal != nil {
		ReceiptsTotal.WithLabelValues(result).Inc()
	}
}

// AddDiscount records a granted discount amount.
func AddDiscount(source string, amount float64) {
	if DiscountTotal != nil && amount > 0 {
		DiscountTotal.WithLabelValues(source).Add(amount)
	}
}

// CountReceiptCache records a receipt cache lookup result.
func CountReceiptCache(result string) {
	if ReceiptCacheTotal != nil {
		ReceiptCacheTotal.WithLabelValues(result).Inc()
	}
}

// CountPromotionChange records a campaign or coupon mutation.
func CountPromotionChange(kind, action string) {
	if PromotionChangesTotal != nil {
		PromotionChangesTotal.WithLabelValues(kind, action).Inc()
	}
}
