/*
Package share builds the shareable pieces of the ledger: the human-readable
summary message and the WhatsApp deep link that carries it.

Both builders are pure functions of their inputs. The one ambient dependency
is the local timezone used for the date-only fields of the summary; tests fix
it or treat the date text as opaque.
*/
package share

import (
	"fmt"
	"strings"

	"github.com/warp/kirana-ledger/format"
	"github.com/warp/kirana-ledger/ledger"
)

// maxItemPreview is how many item names a credit line shows before "+N more".
const maxItemPreview = 2

// BuildSummary renders the customer's ledger as a WhatsApp-ready message:
// title, optional phone and address, a totals block, and - when includeDetails
// is set - the recent credit and payment entries handed in. Callers pass the
// slices already limited to the entries they want shown (the UI shows five).
func BuildSummary(c ledger.Customer, totals ledger.Totals, recentCredits, recentPayments []ledger.Transaction, includeDetails bool) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("*%s — Udhaar Summary*", c.Name))
	if c.Phone != "" {
		lines = append(lines, fmt.Sprintf("📞 *Mob:* %s", c.Phone))
	}
	if c.Address != "" {
		lines = append(lines, fmt.Sprintf("🏠 *Address:* %s", c.Address))
	}
	lines = append(lines, "")

	lines = append(lines, "📊 *Summary*")
	lines = append(lines, fmt.Sprintf("• Total Credit: ₹%s", format.INR(totals.TotalCredit)))
	lines = append(lines, fmt.Sprintf("• Payments: ₹%s", format.INR(totals.TotalReceived)))
	lines = append(lines, fmt.Sprintf("• *Current Due: ₹%s*", format.INR(totals.Balance)))

	if includeDetails {
		lines = append(lines, "", "🧾 *Recent Credits (5)*")
		for i, t := range recentCredits {
			line := fmt.Sprintf("%d. %s — ₹%s", i+1, format.FormatDate(t.Date), format.INR(t.Amount))
			if preview := itemPreview(t.Items); preview != "" {
				line += " — " + preview
			}
			lines = append(lines, line)
		}

		lines = append(lines, "", "💸 *Recent Payments (5)*")
		for i, t := range recentPayments {
			lines = append(lines, fmt.Sprintf("%d. %s — ₹%s — %s",
				i+1, format.FormatDate(t.Date), format.INR(t.Amount), t.Method))
		}
	}

	lines = append(lines, "", "_Sent via Kirana Ledger_")
	return strings.Join(lines, "\n")
}

// itemPreview renders the first two item names as "name qtyxprice", comma
// joined, with a "+N more" suffix when lines remain.
func itemPreview(items []ledger.CreditItem) string {
	if len(items) == 0 {
		return ""
	}
	n := len(items)
	if n > maxItemPreview {
		n = maxItemPreview
	}
	parts := make([]string, 0, n)
	for _, it := range items[:n] {
		parts = append(parts, fmt.Sprintf("%s %sx%s", it.Name, it.Quantity.String(), format.INR(it.UnitPrice)))
	}
	preview := strings.Join(parts, ", ")
	if len(items) > maxItemPreview {
		preview += fmt.Sprintf(" +%d more", len(items)-maxItemPreview)
	}
	return preview
}
