package authenticator

import (
	"encoding/json"
	"fmt"
)

// MapToIdentity turns a token response into an authentication result.
// Every field of the response becomes a subject attribute; the access token
// is also exposed as a context attribute for later API calls.
func MapToIdentity(tokens TokenResponse) (*AuthenticationResult, error) {
	subject, ok := stringClaim(tokens, ClaimUserID)
	if !ok {
		return nil, newError(KindMalformedTokenResponse, "token response has no "+ClaimUserID, nil)
	}

	subjectAttributes := make(map[string]any, len(tokens))
	for k, v := range tokens {
		subjectAttributes[k] = v
	}

	accessToken, ok := stringClaim(tokens, ClaimAccessToken)
	if !ok {
		return nil, newError(KindMalformedTokenResponse, "token response has no usable "+ClaimAccessToken, nil)
	}
	contextAttributes := map[string]any{ClaimAccessToken: accessToken}

	return &AuthenticationResult{
		Subject:           subject,
		SubjectAttributes: subjectAttributes,
		ContextAttributes: contextAttributes,
	}, nil
}

// stringClaim renders strings and numbers; anything else counts as absent
func stringClaim(tokens TokenResponse, key string) (string, bool) {
	switch v := tokens[key].(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), true
	case float64:
		return fmt.Sprintf("%.0f", v), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	default:
		return "", false
	}
}
