package v1_test

import (
	"net/http"
	"strings"

	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/test"
)

func (suite *TestSuiteStandard) TestRegister() {
	recorder := suite.request(http.MethodPost, "/v1/users/register",
		`{"name": "An", "email": "An@Example.com", "password": "secret"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, recorder)

	var user models.User
	test.DecodeResponse(suite.T(), recorder, &user)

	assert := suite.Assert()
	assert.Equal("an@example.com", user.Email, "email must be normalized")
	assert.False(strings.Contains(recorder.Body.String(), "secret"), "the credential must never appear in a response")
	assert.False(strings.Contains(recorder.Body.String(), "password"), "the hash must never be serialized")
}

func (suite *TestSuiteStandard) TestRegisterDuplicateEmail() {
	recorder := suite.request(http.MethodPost, "/v1/users/register",
		`{"email": "an@example.com", "password": "secret"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusCreated, recorder)

	recorder = suite.request(http.MethodPost, "/v1/users/register",
		`{"email": "an@example.com", "password": "other"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, recorder)
}

func (suite *TestSuiteStandard) TestRegisterInvalidBody() {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"broken json", `{"email": an@example.com}`},
		{"missing password", `{"email": "an@example.com"}`},
		{"missing email", `{"password": "secret"}`},
	}

	for _, tt := range tests {
		recorder := suite.request(http.MethodPost, "/v1/users/register", tt.body)
		suite.Assert().Equal(http.StatusBadRequest, recorder.Code, "%s must be rejected, response: %s", tt.name, recorder.Body.String())
	}
}

func (suite *TestSuiteStandard) TestLoginWrongCredentials() {
	email, _ := suite.registerAndLogin()

	// Unknown email and wrong password yield the same answer so that the
	// response does not leak which addresses are registered
	for _, body := range []string{
		`{"email": "` + email + `", "password": "wrong"}`,
		`{"email": "unknown@example.com", "password": "wrong"}`,
	} {
		recorder := suite.request(http.MethodPost, "/v1/users/login", body)
		test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)
	}
}

func (suite *TestSuiteStandard) TestLoginSwitchesUser() {
	firstEmail, firstPassword := suite.registerAndLogin()
	secondEmail, _ := suite.registerAndLogin()

	recorder := suite.request(http.MethodGet, "/v1/users/me", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var user models.User
	test.DecodeResponse(suite.T(), recorder, &user)
	suite.Assert().Equal(secondEmail, user.Email)

	// Logging in as the first user again replaces the session
	suite.login(firstEmail, firstPassword)

	recorder = suite.request(http.MethodGet, "/v1/users/me", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	test.DecodeResponse(suite.T(), recorder, &user)
	suite.Assert().Equal(firstEmail, user.Email)
}

func (suite *TestSuiteStandard) TestLogout() {
	suite.registerAndLogin()

	recorder := suite.request(http.MethodPost, "/v1/users/logout", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, recorder)

	recorder = suite.request(http.MethodGet, "/v1/users/me", "")
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)
}

func (suite *TestSuiteStandard) TestMeUnauthenticated() {
	recorder := suite.request(http.MethodGet, "/v1/users/me", "")
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)
}
