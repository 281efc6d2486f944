package model

import "github.com/shopspring/decimal"

type PreferenceItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CurrencyID  string          `json:"currency_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int32           `json:"quantity"`
}

type PreferencePayer struct {
	Email string `json:"email"`
}

// PreferenceMetadata rides along with the preference and is echoed back
// unmodified on the payment record. It is the only channel used to attribute
// a payment to a buyer.
type PreferenceMetadata struct {
	BuyerEmail string `json:"buyer_email"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceRequest struct {
	Items           []PreferenceItem   `json:"items"`
	Payer           PreferencePayer    `json:"payer"`
	Metadata        PreferenceMetadata `json:"metadata"`
	BackURLs        BackURLs           `json:"back_urls"`
	NotificationURL string             `json:"notification_url"`
	AutoReturn      string             `json:"auto_return"`
	ExternalRef     string             `json:"external_reference,omitempty"`
}

type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

const (
	PaymentStatusApproved = "approved"
	PaymentStatusPending  = "pending"
	PaymentStatusRejected = "rejected"
)

type PaymentItem struct {
	ID string `json:"id"`
}

type PaymentAdditionalInfo struct {
	Items []PaymentItem `json:"items"`
}

// PaymentRecord is the gateway's authoritative record of a payment, fetched
// by id. Webhook notification bodies are never trusted in its place.
type PaymentRecord struct {
	ID             int64                 `json:"id"`
	Status         string                `json:"status"`
	Metadata       PreferenceMetadata    `json:"metadata"`
	AdditionalInfo PaymentAdditionalInfo `json:"additional_info"`
	ExternalRef    string                `json:"external_reference"`
}

// CourseIDs lists the purchased item ids on the record.
func (p *PaymentRecord) CourseIDs() []string {
	ids := make([]string, 0, len(p.AdditionalInfo.Items))
	for _, item := range p.AdditionalInfo.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// WebhookNotification is the gateway's delivery envelope. Untrusted input.
type WebhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}
