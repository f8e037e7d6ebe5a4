package authenticator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackRequest(method, query string) *http.Request {
	return httptest.NewRequest(method, "https://idp.example/authn/callback?"+query, nil)
}

func TestValidateCallback_Success(t *testing.T) {
	sess := NewMemorySession()
	require.NoError(t, sess.Put(SessionStateKey, "state-1"))

	cb, err := ValidateCallback(callbackRequest(http.MethodGet, "code=abc&state=state-1"), sess, nil)

	require.NoError(t, err)
	assert.Equal(t, &ValidatedCallback{Code: "abc", State: "state-1"}, cb)

	_, stillThere := sess.Get(SessionStateKey)
	assert.False(t, stillThere, "state must be consumed")
}

func TestValidateCallback_StateMismatch(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		received string
	}{
		{"different value", "state-1", "state-2"},
		{"prefix", "state-1", "state-"},
		{"longer", "state-1", "state-11"},
		{"case differs", "abc", "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewMemorySession()
			require.NoError(t, sess.Put(SessionStateKey, tt.stored))

			cb, err := ValidateCallback(callbackRequest(http.MethodGet, "code=abc&state="+tt.received), sess, nil)

			assert.Nil(t, cb)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestValidateCallback_NoStoredState(t *testing.T) {
	cb, err := ValidateCallback(callbackRequest(http.MethodGet, "code=abc&state=anything"), NewMemorySession(), nil)

	assert.Nil(t, cb)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestValidateCallback_StateIsSingleUse(t *testing.T) {
	sess := NewMemorySession()
	require.NoError(t, sess.Put(SessionStateKey, "state-1"))

	_, err := ValidateCallback(callbackRequest(http.MethodGet, "code=abc&state=state-1"), sess, nil)
	require.NoError(t, err)

	_, err = ValidateCallback(callbackRequest(http.MethodGet, "code=abc&state=state-1"), sess, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestValidateCallback_MissingParameters(t *testing.T) {
	sess := NewMemorySession()
	require.NoError(t, sess.Put(SessionStateKey, "state-1"))

	for _, query := range []string{"state=state-1", "code=abc", "code=&state=state-1", "code=abc&state="} {
		_, err := ValidateCallback(callbackRequest(http.MethodGet, query), sess, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest, query)
	}
}

func TestValidateCallback_ProviderError(t *testing.T) {
	sess := NewMemorySession()
	require.NoError(t, sess.Put(SessionStateKey, "state-1"))
	info := StaticInformation("https://idp.example/authn")

	cb, err := ValidateCallback(
		callbackRequest(http.MethodGet, "error=access_denied&error_description=user+cancelled&state=state-1"), sess, info)

	assert.Nil(t, cb)
	assert.ErrorIs(t, err, ErrProviderReportedError)

	restart, ok := IsRestart(err)
	require.True(t, ok)
	assert.Equal(t, "https://idp.example/authn", restart.Location)
	assert.Equal(t, http.StatusFound, restart.StatusCode)
}

func TestValidateCallback_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		_, err := ValidateCallback(callbackRequest(method, "code=abc&state=s"), NewMemorySession(), nil)
		assert.ErrorIs(t, err, ErrMethodNotAllowed, method)
	}
}
