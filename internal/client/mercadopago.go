package client

import (
	"bytes"
	"context"
	"course-store/internal/config"
	"course-store/internal/model"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type MercadoPagoClient interface {
	CreatePreference(ctx context.Context, req *model.PreferenceRequest) (*model.PreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*model.PaymentRecord, error)
}

type mercadoPagoClientImpl struct {
	httpClient  *http.Client
	baseApiURL  string
	accessToken string
}

func NewMercadoPagoClient(mpCfg *config.MercadoPago) MercadoPagoClient {
	return &mercadoPagoClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseApiURL:  mpCfg.BaseApiURL,
		accessToken: mpCfg.AccessToken,
	}
}

func (c *mercadoPagoClientImpl) CreatePreference(ctx context.Context, prefReq *model.PreferenceRequest) (*model.PreferenceResponse, error) {
	body, err := json.Marshal(prefReq)
	if err != nil {
		return nil, fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/checkout/preferences",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(b))
	}

	var result model.PreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode preference response: %w", err)
	}

	return &result, nil
}

// GetPayment fetches the authoritative payment record by id. One retry on a
// transport error or 5xx; 404 means the id does not resolve and is final.
func (c *mercadoPagoClientImpl) GetPayment(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		record, retryable, err := c.getPaymentOnce(ctx, paymentID)
		if err == nil {
			return record, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *mercadoPagoClientImpl) getPaymentOnce(ctx context.Context, paymentID string) (*model.PaymentRecord, bool, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseApiURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		b, _ := io.ReadAll(resp.Body)
		return nil, true, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(b))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("mercadopago error %d: %s", resp.StatusCode, string(b))
	}

	var record model.PaymentRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, false, fmt.Errorf("decode payment record: %w", err)
	}

	return &record, false, nil
}
