// Package status maps the heterogeneous status vocabularies emitted by the
// upstream services onto one canonical, closed status set shared by loans,
// quotes, listings, invoices and wallet transactions.
package status

import "strings"

// Key identifies a canonical status. Keys are the values persisted and
// compared; labels are what clients display.
type Key string

const (
	KeyPending              Key = "PENDING"
	KeySuccessful           Key = "SUCCESSFUL"
	KeyRejected             Key = "REJECTED"
	KeyPaid                 Key = "PAID"
	KeyActive               Key = "ACTIVE"
	KeyCompleted            Key = "COMPLETED"
	KeyOverdue              Key = "OVERDUE"
	KeyVerified             Key = "VERIFIED"
	KeyPendingVerification  Key = "PENDING_VERIFICATION"
	KeyNegotiated           Key = "NEGOTIATED"
	KeyAccepted             Key = "ACCEPTED"
	KeyQuoteSent            Key = "QUOTE_SENT"
	KeyDelivered            Key = "DELIVERED"
	KeyOfferReceived        Key = "OFFER_RECEIVED"
	KeyAwaitingDownpayment  Key = "AWAITING_DOWNPAYMENT"
	KeyAwaitingDisbursement Key = "AWAITING_DISBURSEMENT"
	KeyDraft                Key = "DRAFT"
	KeyUnpublished          Key = "UNPUBLISHED"
	KeyPublished            Key = "PUBLISHED"
	KeyOutOfStock           Key = "OUT_OF_STOCK"
)

var labels = map[Key]string{
	KeyPending:              "Pending",
	KeySuccessful:           "Successful",
	KeyRejected:             "Rejected",
	KeyPaid:                 "Paid",
	KeyActive:               "Active",
	KeyCompleted:            "Completed",
	KeyOverdue:              "Overdue",
	KeyVerified:             "Verified",
	KeyPendingVerification:  "Pending Verification",
	KeyNegotiated:           "Negotiated",
	KeyAccepted:             "Accepted",
	KeyQuoteSent:            "Quote sent",
	KeyDelivered:            "Delivered",
	KeyOfferReceived:        "Offer Received",
	KeyAwaitingDownpayment:  "Awaiting Downpayment",
	KeyAwaitingDisbursement: "Awaiting Disbursement",
	KeyDraft:                "Draft",
	KeyUnpublished:          "Unpublished",
	KeyPublished:            "Published",
	KeyOutOfStock:           "Out of Stock",
}

// keysByLabel is the inverse of labels, built once at init.
var keysByLabel = func() map[string]Key {
	inverse := make(map[string]Key, len(labels))
	for key, label := range labels {
		inverse[label] = key
	}
	return inverse
}()

// Label returns the display label for a key, or the key itself when the key
// is outside the canonical set.
func Label(k Key) string {
	if label, ok := labels[k]; ok {
		return label
	}
	return string(k)
}

// KeyFromLabel resolves a display label back to its key. The second return
// is false for labels outside the canonical set; callers treat that as "no
// match", never as an error.
func KeyFromLabel(label string) (Key, bool) {
	key, ok := keysByLabel[label]
	return key, ok
}

// ForLoan maps a raw loan status to its canonical key. The loan service
// emits lowercase snake_case exactly, so matching is case-sensitive; any
// other casing falls through to the default.
func ForLoan(raw string) Key {
	switch raw {
	case "active":
		return KeyActive
	case "completed":
		return KeyCompleted
	case "overdue":
		return KeyOverdue
	case "awaiting_downpayment":
		return KeyAwaitingDownpayment
	case "awaiting_loan_disbursement":
		return KeyAwaitingDisbursement
	case "offer_received":
		return KeyOfferReceived
	default:
		return KeyPending
	}
}

// ForQuote maps a raw quote status to its canonical key, case-insensitively.
func ForQuote(raw string) Key {
	switch strings.ToLower(raw) {
	case "accepted":
		return KeyAccepted
	case "rejected":
		return KeyRejected
	case "delivered":
		return KeyDelivered
	case "negotiated":
		return KeyNegotiated
	case "quote sent", "quotesent":
		return KeyQuoteSent
	case "pending":
		return KeyPending
	default:
		return KeyPending
	}
}

// ForListing maps a raw marketplace listing status to its canonical key,
// case-insensitively. Unrecognized values default to Published, not Pending:
// the catalogue service predates status fields and legacy rows are live.
func ForListing(raw string) Key {
	switch strings.ToUpper(raw) {
	case "DRAFT":
		return KeyDraft
	case "UNPUBLISHED":
		return KeyUnpublished
	case "OUTOFSTOCK", "OUT_OF_STOCK":
		return KeyOutOfStock
	case "PUBLISHED":
		return KeyPublished
	default:
		return KeyPublished
	}
}

// ForInvoice maps a raw invoice status to its canonical key,
// case-insensitively.
func ForInvoice(raw string) Key {
	if strings.EqualFold(raw, "paid") {
		return KeyPaid
	}
	return KeyPending
}

// ForTransaction maps a raw wallet transaction status to its canonical key,
// case-insensitively.
func ForTransaction(raw string) Key {
	if strings.EqualFold(raw, "successful") {
		return KeySuccessful
	}
	return KeyPending
}
