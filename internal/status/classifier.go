package status

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/muadee/storefront-gateway/pkg/enums"
)

// The upstream reports order lifecycle as free-form Vietnamese strings.
// Classification is a priority-ordered substring match over folded input:
// more specific conditions sit above generic ones, so a cancelled order is
// recognized before any pending/payment rule can claim it.

type rule struct {
	status  enums.CanonicalStatus
	order   []string
	payment []string
}

var rules = []rule{
	{status: enums.CanonicalStatusCancelled, order: []string{"huy"}},
	{status: enums.CanonicalStatusCompleted, order: []string{"hoan thanh", "hoan tat"}},
	{status: enums.CanonicalStatusDelivered, order: []string{"da giao", "giao thanh cong", "da nhan"}},
	{status: enums.CanonicalStatusShipping, order: []string{"dang giao", "van chuyen"}},
	{status: enums.CanonicalStatusPacking, order: []string{"dong goi", "chuan bi hang"}},
	{status: enums.CanonicalStatusPending, order: []string{"cho"}, payment: []string{"chua thanh toan", "cho thanh toan"}},
	{status: enums.CanonicalStatusProcessing, order: []string{"cho", "xac nhan", "xu ly"}},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Classify maps the raw upstream order and payment status strings to the
// canonical lifecycle stage. Pure and deterministic: the same pair of
// inputs always yields the same result.
func Classify(rawOrderStatus, rawPaymentStatus string) enums.CanonicalStatus {
	order := Fold(rawOrderStatus)
	payment := Fold(rawPaymentStatus)

	for _, r := range rules {
		if !containsAny(order, r.order) {
			continue
		}
		if len(r.payment) > 0 && !containsAny(payment, r.payment) {
			continue
		}
		return r.status
	}
	return enums.CanonicalStatusProcessing
}

// Matches reports whether the raw pair classifies to the given key. It
// agrees with Classify by construction.
func Matches(key enums.CanonicalStatus, rawOrderStatus, rawPaymentStatus string) bool {
	return Classify(rawOrderStatus, rawPaymentStatus) == key
}

// Fold lowercases and strips Vietnamese diacritics so substring rules can
// match regardless of accent or case.
func Fold(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	folded, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		folded = lowered
	}
	return strings.Map(func(r rune) rune {
		if r == 'đ' {
			return 'd'
		}
		return r
	}, folded)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
