package model

// PaymentOutcome 付款結果（閘道回報的各種狀態先正規化為這兩種）
type PaymentOutcome string

const (
	PaymentOutcomeSettled PaymentOutcome = "settled"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// PaymentNotification 經過簽章驗證與解析後的付款通知
type PaymentNotification struct {
	ExternalRef string         `json:"external_ref"`
	Outcome     PaymentOutcome `json:"outcome"`
}
