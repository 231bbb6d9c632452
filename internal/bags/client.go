// Package bags talks to the Bags token-launch API. A launch is a strict
// three-step pipeline (create token info, create launch transaction, submit
// transaction); callers treat any step failure as fatal for the launch.
package bags

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	StepCreateTokenInfo = "create-token-info"
	StepCreateLaunchTx  = "create-launch-transaction"
	StepSendTx          = "send-transaction"
	StepFeeShare        = "fee-share-config"
)

// StepError reports which pipeline step failed and what the API returned.
type StepError struct {
	Step   string
	Status int
	Detail string
}

func (e *StepError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("bags %s failed: status %d: %s", e.Step, e.Status, e.Detail)
	}
	return fmt.Sprintf("bags %s failed: %s", e.Step, e.Detail)
}

type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	retryDelay time.Duration
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		http:       &http.Client{Timeout: 60 * time.Second},
		retryDelay: 2 * time.Second,
	}
}

type TokenInfoRequest struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type TokenInfo struct {
	ID string `json:"id"`
}

type LaunchTransaction struct {
	Transaction string `json:"transaction"`
}

type SendResult struct {
	Mint      string `json:"mint"`
	Signature string `json:"signature"`
}

type FeeShare struct {
	Wallet     string `json:"wallet"`
	Percentage int    `json:"percentage"`
}

type LifetimeFees struct {
	TotalFees float64 `json:"totalFees"`
	Volume    float64 `json:"volume"`
}

func (c *Client) CreateTokenInfo(ctx context.Context, req TokenInfoRequest) (*TokenInfo, error) {
	var out TokenInfo
	if err := c.post(ctx, StepCreateTokenInfo, "/token/create-info", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &StepError{Step: StepCreateTokenInfo, Detail: "response missing token info id"}
	}
	return &out, nil
}

func (c *Client) CreateLaunchTransaction(ctx context.Context, tokenInfoID, creatorPublicKey string) (*LaunchTransaction, error) {
	req := map[string]string{
		"tokenInfoId":      tokenInfoID,
		"creatorPublicKey": creatorPublicKey,
	}
	var out LaunchTransaction
	if err := c.post(ctx, StepCreateLaunchTx, "/token/create-launch-transaction", req, &out); err != nil {
		return nil, err
	}
	if out.Transaction == "" {
		return nil, &StepError{Step: StepCreateLaunchTx, Detail: "response missing transaction"}
	}
	return &out, nil
}

func (c *Client) SendTransaction(ctx context.Context, signedTransaction string) (*SendResult, error) {
	req := map[string]string{"signedTransaction": signedTransaction}
	var out SendResult
	if err := c.post(ctx, StepSendTx, "/solana/send-transaction", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFeeShareConfig(ctx context.Context, mint string, shares []FeeShare) error {
	req := map[string]interface{}{"mint": mint, "shares": shares}
	return c.post(ctx, StepFeeShare, "/fee-share/create-config", req, nil)
}

func (c *Client) TokenLifetimeFees(ctx context.Context, mint string) (*LifetimeFees, error) {
	u := c.baseURL + "/analytics/token-lifetime-fees?mint=" + url.QueryEscape(mint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bags lifetime fees: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bags lifetime fees: status %d: %s", resp.StatusCode, body)
	}
	var out LifetimeFees
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("bags lifetime fees: %w", err)
	}
	return &out, nil
}

// post retries transient upstream failures (429/5xx) with backoff before
// reporting a step error.
func (c *Client) post(ctx context.Context, step, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &StepError{Step: step, Detail: err.Error()}
	}

	const attempts = 3
	delay := c.retryDelay
	var status int
	var respBody []byte
	for i := 0; i < attempts; i++ {
		status, respBody, err = c.doPost(ctx, path, body)
		if err == nil && status != http.StatusTooManyRequests && status < 500 {
			break
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return &StepError{Step: step, Detail: ctx.Err().Error()}
		case <-t.C:
		}
		delay *= 2
	}
	if err != nil {
		return &StepError{Step: step, Detail: err.Error()}
	}
	if status >= 300 {
		return &StepError{Step: step, Status: status, Detail: string(respBody)}
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &StepError{Step: step, Detail: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

func (c *Client) doPost(ctx context.Context, path string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}
