package authenticator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Token response fields
const (
	ClaimUserID       = "user_id"
	ClaimAccessToken  = "access_token"
	ClaimRefreshToken = "refresh_token"
)

// maxTokenResponseSize caps the body read from the token endpoint
const maxTokenResponseSize = 1 << 20

// TokenResponse is the decoded JSON object returned by the token endpoint
type TokenResponse map[string]any

// TokenRequest carries what the token endpoint needs to redeem a code
type TokenRequest struct {
	TokenEndpoint string
	ClientID      string
	ClientSecret  string
	Code          string
	State         string
	RedirectURI   string
}

// TokenClient redeems authorization codes. It never retries.
type TokenClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTokenClient creates a token client. A nil client gets DefaultHTTPTimeout.
func NewTokenClient(httpClient *http.Client, logger *zap.Logger) *TokenClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenClient{httpClient: httpClient, logger: logger}
}

// ExchangeCodeForTokens posts the code to the token endpoint and decodes the response
func (c *TokenClient) ExchangeCodeForTokens(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {req.ClientID},
		"client_secret": {req.ClientSecret},
		"code":          {req.Code},
	}
	if req.RedirectURI != "" {
		form.Set("redirect_uri", req.RedirectURI)
	}
	if req.State != "" {
		form.Set("state", req.State)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, newError(KindInvalidConfiguration, "invalid token endpoint", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("Exchanging authorization code for tokens", zap.String("endpoint", req.TokenEndpoint))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Token endpoint unreachable", zap.String("endpoint", req.TokenEndpoint), zap.Error(err))
		return nil, newError(KindUpstreamUnavailable, "token endpoint request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return nil, newError(KindUpstreamUnavailable, "failed to read token response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retrieveErr := newRetrieveError(resp, body)
		c.logger.Warn("Token endpoint returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("error", retrieveErr.ErrorCode))
		return nil, newError(KindTokenExchangeFailed,
			fmt.Sprintf("token endpoint returned status %d", resp.StatusCode), retrieveErr)
	}

	tokens, err := decodeTokenResponse(body)
	if err != nil {
		return nil, newError(KindTokenExchangeFailed, "token response is not a JSON object", err)
	}

	for _, field := range []string{ClaimUserID, ClaimAccessToken} {
		if _, ok := stringClaim(tokens, field); !ok {
			return nil, newError(KindMalformedTokenResponse, "token response is missing "+field, nil)
		}
	}

	return tokens, nil
}

func decodeTokenResponse(body []byte) (TokenResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tokens TokenResponse
	if err := dec.Decode(&tokens); err != nil {
		// the cause may echo parts of the body, keep only its type
		return nil, fmt.Errorf("decode failed: %T", err)
	}
	if tokens == nil {
		return nil, fmt.Errorf("body is null")
	}
	return tokens, nil
}

// newRetrieveError extracts the OAuth error code without keeping the raw body
func newRetrieveError(resp *http.Response, body []byte) *oauth2.RetrieveError {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorURI         string `json:"error_uri"`
	}
	_ = json.Unmarshal(body, &payload)

	return &oauth2.RetrieveError{
		Response:         resp,
		ErrorCode:        payload.Error,
		ErrorDescription: payload.ErrorDescription,
		ErrorURI:         payload.ErrorURI,
	}
}
