package v1_test

import (
	"fmt"
	"net/http"

	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/internal/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestWalletsUnauthenticated() {
	recorder := suite.request(http.MethodPost, "/v1/wallets", `{"name": "Cash"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)

	recorder = suite.request(http.MethodGet, "/v1/wallets", "")
	test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)
}

func (suite *TestSuiteStandard) TestCreateWallet() {
	suite.registerAndLogin()

	wallet := suite.createWallet(`{"name": "Cash", "icon": "wallet", "color": "#4CAF50", "initialBalance": "100.00"}`)

	assert := suite.Assert()
	assert.Equal("Cash", wallet.Name)
	assert.True(wallet.Balance.Equal(decimal.NewFromFloat(100)), "balance is %s, should be seeded with the initial balance", wallet.Balance)
}

func (suite *TestSuiteStandard) TestUpdateWallet() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash", "initialBalance": "100.00"}`)

	recorder := suite.request(http.MethodPatch, fmt.Sprintf("/v1/wallets/%d", wallet.ID), `{"name": "Pocket money"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var updated models.Wallet
	test.DecodeResponse(suite.T(), recorder, &updated)

	assert := suite.Assert()
	assert.Equal("Pocket money", updated.Name)
	assert.Equal(wallet.Icon, updated.Icon, "fields absent from the body must keep their value")
}

func (suite *TestSuiteStandard) TestUpdateWalletBalanceReadOnly() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash", "initialBalance": "100.00"}`)

	recorder := suite.request(http.MethodPatch, fmt.Sprintf("/v1/wallets/%d", wallet.ID), `{"balance": "9999.00"}`)
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/wallets/%d", wallet.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var found models.Wallet
	test.DecodeResponse(suite.T(), recorder, &found)
	suite.Assert().True(found.Balance.Equal(decimal.NewFromFloat(100)), "the balance must not be editable, got %s", found.Balance)
}

func (suite *TestSuiteStandard) TestWalletNotOwned() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)

	// A second account must not see the first account's wallet
	suite.registerAndLogin()

	recorder := suite.request(http.MethodGet, fmt.Sprintf("/v1/wallets/%d", wallet.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusForbidden, recorder)

	recorder = suite.request(http.MethodGet, "/v1/wallets", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var wallets []models.Wallet
	test.DecodeResponse(suite.T(), recorder, &wallets)
	suite.Assert().Empty(wallets)
}

func (suite *TestSuiteStandard) TestDeleteWalletReferenced() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)
	category := suite.createCategory(`{"name": "Food", "kind": "expense"}`)

	_ = suite.createTransaction(fmt.Sprintf(
		`{"title": "Lunch", "amount": "12.00", "categoryId": %d, "walletId": %d, "kind": "expense"}`,
		category.ID, wallet.ID))

	recorder := suite.request(http.MethodDelete, fmt.Sprintf("/v1/wallets/%d", wallet.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusConflict, recorder)
}

func (suite *TestSuiteStandard) TestDeleteWallet() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)

	recorder := suite.request(http.MethodDelete, fmt.Sprintf("/v1/wallets/%d", wallet.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusNoContent, recorder)

	recorder = suite.request(http.MethodGet, fmt.Sprintf("/v1/wallets/%d", wallet.ID), "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, recorder)
}

func (suite *TestSuiteStandard) TestWalletNotFound() {
	suite.registerAndLogin()

	recorder := suite.request(http.MethodGet, "/v1/wallets/4096", "")
	test.AssertHTTPStatus(suite.T(), http.StatusNotFound, recorder)
}
