package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/pocketledger/backend/internal/controllers/v1"
	"github.com/pocketledger/backend/internal/query"
	"github.com/pocketledger/backend/internal/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestStatsUnauthenticated() {
	for _, path := range []string{"/v1/stats/balance", "/v1/stats/totals", "/v1/stats/categories"} {
		recorder := suite.request(http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), http.StatusUnauthorized, recorder)
	}
}

func (suite *TestSuiteStandard) TestStatsTotals() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)
	food := suite.createCategory(`{"name": "Food", "kind": "expense"}`)
	salary := suite.createCategory(`{"name": "Salary", "kind": "income"}`)

	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "30.00", "categoryId": %d, "walletId": %d, "date": "2024-01-05T00:00:00Z", "kind": "expense"}`,
		food.ID, wallet.ID))
	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "40.00", "categoryId": %d, "walletId": %d, "date": "2024-02-05T00:00:00Z", "kind": "expense"}`,
		food.ID, wallet.ID))
	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "2000.00", "categoryId": %d, "walletId": %d, "date": "2024-01-28T00:00:00Z", "kind": "income"}`,
		salary.ID, wallet.ID))

	recorder := suite.request(http.MethodGet, "/v1/stats/totals", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var totals v1.TotalsResponse
	test.DecodeResponse(suite.T(), recorder, &totals)

	assert := suite.Assert()
	assert.True(totals.Expense.Equal(decimal.NewFromFloat(70)), "expense total is %s", totals.Expense)
	assert.True(totals.Income.Equal(decimal.NewFromFloat(2000)), "income total is %s", totals.Income)

	recorder = suite.request(http.MethodGet, "/v1/stats/totals?from=2024-01-01&until=2024-01-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	test.DecodeResponse(suite.T(), recorder, &totals)
	assert.True(totals.Expense.Equal(decimal.NewFromFloat(30)), "January expense total is %s", totals.Expense)
}

func (suite *TestSuiteStandard) TestStatsCategories() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)
	food := suite.createCategory(`{"name": "Food", "kind": "expense"}`)
	rent := suite.createCategory(`{"name": "Rent", "kind": "expense"}`)

	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "120.00", "categoryId": %d, "walletId": %d, "kind": "expense"}`,
		food.ID, wallet.ID))
	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "800.00", "categoryId": %d, "walletId": %d, "kind": "expense"}`,
		rent.ID, wallet.ID))

	recorder := suite.request(http.MethodGet, "/v1/stats/categories", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var totals []query.CategoryTotal
	test.DecodeResponse(suite.T(), recorder, &totals)

	suite.Require().Len(totals, 2)
	suite.Assert().Equal("Rent", totals[0].Name, "largest sum must come first")
	suite.Assert().True(totals[0].Total.Equal(decimal.NewFromFloat(800)))
}

func (suite *TestSuiteStandard) TestStatsCategoriesInvalidKind() {
	suite.registerAndLogin()

	recorder := suite.request(http.MethodGet, "/v1/stats/categories?kind=saving", "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, recorder)
}

func (suite *TestSuiteStandard) TestStatsInvalidRange() {
	suite.registerAndLogin()

	recorder := suite.request(http.MethodGet, "/v1/stats/totals?from=yesterday", "")
	test.AssertHTTPStatus(suite.T(), http.StatusBadRequest, recorder)
}

func (suite *TestSuiteStandard) TestStatsTotalsUntilIncludesDay() {
	suite.registerAndLogin()
	wallet := suite.createWallet(`{"name": "Cash"}`)
	food := suite.createCategory(`{"name": "Food", "kind": "expense"}`)

	// Late on the last day of the range
	_ = suite.createTransaction(fmt.Sprintf(
		`{"amount": "25.00", "categoryId": %d, "walletId": %d, "date": "2024-01-31T18:00:00Z", "kind": "expense"}`,
		food.ID, wallet.ID))

	recorder := suite.request(http.MethodGet, "/v1/stats/totals?from=2024-01-01&until=2024-01-31", "")
	test.AssertHTTPStatus(suite.T(), http.StatusOK, recorder)

	var totals v1.TotalsResponse
	test.DecodeResponse(suite.T(), recorder, &totals)
	suite.Assert().True(totals.Expense.Equal(decimal.NewFromFloat(25)), "the end date is inclusive for the whole day, total is %s", totals.Expense)
}
