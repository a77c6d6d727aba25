package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"event-ticket-system/internal/model"
	"event-ticket-system/pkg/logger"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// PaymentLink 閘道產生的付款連結，ExternalRef 是後續 webhook 對帳的鍵。
type PaymentLink struct {
	ExternalRef string    `json:"external_ref"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Gateway 外部付款閘道的窄介面。訂單核心不關心閘道內部的收單流程。
type Gateway interface {
	CreatePaymentLink(ctx context.Context, order *model.Order) (*PaymentLink, error)
	// VerifySignature 驗證 webhook 原始 payload 的簽章
	VerifySignature(payload []byte, signature string) bool
}

type HTTPGateway struct {
	baseURL   string
	serverKey string
	hc        *http.Client
}

func NewHTTPGateway(baseURL string, serverKey string, timeout time.Duration) Gateway {
	return &HTTPGateway{
		baseURL:   baseURL,
		serverKey: serverKey,
		hc:        &http.Client{Timeout: timeout},
	}
}

type createLinkRequest struct {
	OrderRef   string  `json:"order_ref"`
	CustomerID int     `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

type createLinkResponse struct {
	ExternalRef string    `json:"external_ref"`
	PaymentURL  string    `json:"payment_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (g *HTTPGateway) CreatePaymentLink(ctx context.Context, order *model.Order) (*PaymentLink, error) {
	reqBody := createLinkRequest{
		OrderRef:   order.OrderID.String(),
		CustomerID: order.CustomerID,
		Amount:     order.NetTotal,
		Currency:   "TWD",
	}

	buff, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/payment-links", g.baseURL)
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(buff))
	if err != nil {
		return nil, err
	}
	hr.Header.Add("Content-Type", "application/json")
	hr.Header.Add("Accept", "application/json")
	hr.Header.Add("Authorization", fmt.Sprintf("Basic %s", g.serverKey))

	hresp, err := g.hc.Do(hr)
	if err != nil {
		logger.WithComponent("payment").Error("create payment link request failed", zap.Error(err))
		return nil, err
	}
	defer hresp.Body.Close()

	respBody, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, err
	}

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		logger.WithComponent("payment").Error("gateway rejected payment link request",
			zap.Int("status_code", hresp.StatusCode), zap.String("body", string(respBody)))
		return nil, fmt.Errorf("payment gateway returned status %d", hresp.StatusCode)
	}

	var resp createLinkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal payment link response: %w", err)
	}

	return &PaymentLink{
		ExternalRef: resp.ExternalRef,
		URL:         resp.PaymentURL,
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}

// VerifySignature 以 server key 對原始 payload 計算 HMAC-SHA256，
// 與閘道送來的十六進位簽章做常數時間比較。
func (g *HTTPGateway) VerifySignature(payload []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.serverKey))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
