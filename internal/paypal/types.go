package paypal

import "github.com/shopspring/decimal"

// CreatePaymentRequest describes a sale to create with the provider. The
// amount is formatted with two decimals on the wire.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	CancelURL   string
	SuccessURL  string
}

type Amount struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type Transaction struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description,omitempty"`
}

type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Payment is the provider's payment object as returned by the create,
// execute and get endpoints.
type Payment struct {
	ID           string        `json:"id"`
	State        string        `json:"state"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Links        []Link        `json:"links,omitempty"`
}

// ApprovalURL returns the href of the link the payer must visit to approve
// the payment, if the provider included one.
func (p Payment) ApprovalURL() (string, bool) {
	for _, l := range p.Links {
		if l.Rel == "approval_url" {
			return l.Href, true
		}
	}

	return "", false
}

type payer struct {
	PaymentMethod string `json:"payment_method"`
}

type redirectURLs struct {
	CancelURL string `json:"cancel_url"`
	ReturnURL string `json:"return_url"`
}

type createPaymentPayload struct {
	Intent       string        `json:"intent"`
	Payer        payer         `json:"payer"`
	Transactions []Transaction `json:"transactions"`
	RedirectURLs redirectURLs  `json:"redirect_urls"`
}

type executePaymentPayload struct {
	PayerID string `json:"payer_id"`
}
