package models_test

import (
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestKindValid() {
	assert := suite.Assert()
	assert.True(models.Expense.Valid())
	assert.True(models.Income.Valid())
	assert.False(models.Kind("").Valid())
	assert.False(models.Kind("transfer").Valid())
}

func (suite *TestSuiteStandard) TestCategoryInvalidKind() {
	user := suite.createTestUser(models.User{})

	category := models.Category{
		UserID: user.ID,
		Name:   "Groceries",
		Kind:   "saving",
	}

	err := models.DB.Create(&category).Error
	suite.Assert().ErrorIs(err, models.ErrKindInvalid)
}

func (suite *TestSuiteStandard) TestCategoryTrimWhitespace() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{
		UserID: user.ID,
		Name:   " Groceries ",
	})

	suite.Assert().Equal("Groceries", category.Name)
}

func (suite *TestSuiteStandard) TestCategoryDeleteReferenced() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	transaction := suite.createTestTransaction(models.Transaction{
		UserID:     user.ID,
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
		WalletID:   wallet.ID,
	})

	err := models.DB.Delete(&category).Error
	suite.Assert().ErrorIs(err, models.ErrStillReferenced)

	// After the last reference is gone, deletion works
	err = models.DB.Delete(&transaction).Error
	suite.Require().NoError(err)

	err = models.DB.Delete(&category).Error
	suite.Assert().NoError(err)
}

func (suite *TestSuiteStandard) TestCategoryKindChangeReferenced() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID, Kind: models.Expense})

	_ = suite.createTestTransaction(models.Transaction{
		UserID:     user.ID,
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
		WalletID:   wallet.ID,
	})

	err := models.DB.Model(&category).Select("Kind").Updates(models.Category{Kind: models.Income}).Error
	suite.Assert().ErrorIs(err, models.ErrStillReferenced)

	var found models.Category
	err = models.DB.First(&found, category.ID).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(models.Expense, found.Kind, "kind must not change while transactions reference the category")
}

func (suite *TestSuiteStandard) TestCategoryKindChangeUnreferenced() {
	user := suite.createTestUser(models.User{})
	category := suite.createTestCategory(models.Category{UserID: user.ID, Kind: models.Expense})

	err := models.DB.Model(&category).Select("Kind").Updates(models.Category{Kind: models.Income}).Error
	suite.Assert().NoError(err)
}

func (suite *TestSuiteStandard) TestCategoryRenameReferenced() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID, Name: "Food"})

	_ = suite.createTestTransaction(models.Transaction{
		UserID:     user.ID,
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
		WalletID:   wallet.ID,
	})

	// Renaming does not touch the kind, so references do not block it
	err := models.DB.Model(&category).Select("Name").Updates(models.Category{Name: "Groceries"}).Error
	suite.Assert().NoError(err)
}
