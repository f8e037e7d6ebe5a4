package authenticator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// AuthenticatorFlowTestSuite runs the whole flow against a fake token endpoint
type AuthenticatorFlowTestSuite struct {
	suite.Suite
	tokenServer *httptest.Server
	tokenCalls  int
	tokenBody   string
	auth        *Authenticator
	sess        *MemorySession
}

func TestAuthenticatorFlowTestSuite(t *testing.T) {
	suite.Run(t, new(AuthenticatorFlowTestSuite))
}

func (suite *AuthenticatorFlowTestSuite) SetupTest() {
	suite.tokenCalls = 0
	suite.tokenBody = `{"user_id":"u1","access_token":"tok123","token_type":"bearer"}`
	suite.tokenServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(suite.tokenBody))
	}))

	auth, err := New(Config{
		ID:            "live1",
		ClientID:      "client-123",
		ClientSecret:  "s3cret",
		TokenEndpoint: suite.tokenServer.URL,
		Permissions:   Permissions{OfflineAccess: true, Calendars: AccessWrite},
		HTTPClient:    suite.tokenServer.Client(),
		Info:          StaticInformation("https://idp.example/authn"),
	})
	suite.Require().NoError(err)
	suite.auth = auth
	suite.sess = NewMemorySession()
}

func (suite *AuthenticatorFlowTestSuite) TearDownTest() {
	suite.tokenServer.Close()
}

func (suite *AuthenticatorFlowTestSuite) start() *RedirectInstruction {
	req := httptest.NewRequest(http.MethodGet, "https://idp.example/authn", nil)
	resp, err := suite.auth.Dispatch(context.Background(), IndexSegment, req, suite.sess)
	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Redirect)
	suite.Nil(resp.Result)
	return resp.Redirect
}

func (suite *AuthenticatorFlowTestSuite) callback(query url.Values) (*Response, error) {
	req := httptest.NewRequest(http.MethodGet, "https://idp.example/authn/callback?"+query.Encode(), nil)
	return suite.auth.Dispatch(context.Background(), CallbackSegment, req, suite.sess)
}

func (suite *AuthenticatorFlowTestSuite) TestHandlers_DispatchTable() {
	handlers := suite.auth.Handlers()

	suite.Len(handlers, 2)
	suite.Contains(handlers, IndexSegment)
	suite.Contains(handlers, CallbackSegment)
}

func (suite *AuthenticatorFlowTestSuite) TestFullFlow() {
	redirect := suite.start()
	suite.Equal("https://login.live.com/oauth20_authorize.srf", redirect.Location)
	suite.Equal("https://idp.example/authn/callback", redirect.Query.Get("redirect_uri"))
	suite.Equal("wl.basic wl.offline_access wl.calendars_update wl.calendars", redirect.Query.Get("scope"))

	resp, err := suite.callback(url.Values{"code": {"abc"}, "state": {redirect.Query.Get("state")}})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.Result)
	suite.Nil(resp.Redirect)
	suite.Equal("u1", resp.Result.Subject)
	suite.Equal("tok123", resp.Result.ContextAttributes[ClaimAccessToken])
	suite.Equal("bearer", resp.Result.SubjectAttributes["token_type"])
	suite.Equal(1, suite.tokenCalls)
}

func (suite *AuthenticatorFlowTestSuite) TestOnlyLatestStateValidates() {
	first := suite.start()
	second := suite.start()
	suite.NotEqual(first.Query.Get("state"), second.Query.Get("state"))

	_, err := suite.callback(url.Values{"code": {"abc"}, "state": {first.Query.Get("state")}})
	suite.ErrorIs(err, ErrInvalidState)
	suite.Equal(0, suite.tokenCalls)
}

func (suite *AuthenticatorFlowTestSuite) TestLatestStateValidates() {
	suite.start()
	second := suite.start()

	resp, err := suite.callback(url.Values{"code": {"abc"}, "state": {second.Query.Get("state")}})
	suite.Require().NoError(err)
	suite.Equal("u1", resp.Result.Subject)
}

func (suite *AuthenticatorFlowTestSuite) TestProviderErrorNeverExchanges() {
	redirect := suite.start()

	resp, err := suite.callback(url.Values{
		"error":             {"access_denied"},
		"error_description": {"The user has denied access"},
		"state":             {redirect.Query.Get("state")},
		"code":              {"abc"},
	})

	suite.Nil(resp)
	restart, ok := IsRestart(err)
	suite.Require().True(ok)
	suite.Equal("https://idp.example/authn", restart.Location)
	suite.Equal(0, suite.tokenCalls)
}

func (suite *AuthenticatorFlowTestSuite) TestMissingUserIDFails() {
	suite.tokenBody = `{"access_token":"tok123"}`
	redirect := suite.start()

	resp, err := suite.callback(url.Values{"code": {"abc"}, "state": {redirect.Query.Get("state")}})

	suite.Nil(resp)
	suite.ErrorIs(err, ErrMalformedTokenResponse)
}

func (suite *AuthenticatorFlowTestSuite) TestMethodsNotAllowed() {
	for _, segment := range []string{IndexSegment, CallbackSegment} {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
			req := httptest.NewRequest(method, "https://idp.example/authn", nil)
			_, err := suite.auth.Dispatch(context.Background(), segment, req, suite.sess)
			suite.ErrorIs(err, ErrMethodNotAllowed, "%s %s", method, segment)
		}
	}
}

func (suite *AuthenticatorFlowTestSuite) TestUnknownSegment() {
	req := httptest.NewRequest(http.MethodGet, "https://idp.example/authn/other", nil)
	_, err := suite.auth.Dispatch(context.Background(), "other", req, suite.sess)
	suite.ErrorIs(err, ErrInvalidRequest)
}

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing client id", Config{ClientSecret: "s", Info: StaticInformation("https://x")}},
		{"missing secret", Config{ClientID: "c", Info: StaticInformation("https://x")}},
		{"missing info", Config{ClientID: "c", ClientSecret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := New(tt.cfg)
			assert.Nil(t, auth)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	auth, err := New(Config{ClientID: "c", ClientSecret: "s", Info: StaticInformation("https://x")})
	require.NoError(t, err)

	assert.Equal(t, PluginType, auth.ID())
	assert.Equal(t, "https://login.live.com/oauth20_token.srf", auth.cfg.TokenEndpoint)
	assert.Equal(t, DefaultHTTPTimeout, auth.cfg.HTTPClient.Timeout)
}

func TestError_KindOf(t *testing.T) {
	err := newError(KindInvalidState, "state does not match", nil)

	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
	assert.Equal(t, "invalid_state: state does not match", err.Error())
}
