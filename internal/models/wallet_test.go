package models_test

import (
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestWalletInitialBalance() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{
		UserID:         user.ID,
		InitialBalance: decimal.NewFromFloat(100),
	})

	assert := suite.Assert()
	assert.True(wallet.Balance.Equal(decimal.NewFromFloat(100)), "balance is not seeded with the initial balance: %s", wallet.Balance)

	computed, err := wallet.ComputedBalance(models.DB)
	assert.Nil(err)
	assert.True(wallet.Balance.Equal(computed), "cached balance %s does not match computed balance %s", wallet.Balance, computed)
}

func (suite *TestSuiteStandard) TestWalletTrimWhitespace() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{
		UserID: user.ID,
		Name:   " Cash ",
		Icon:   " wallet ",
		Color:  " #4CAF50 ",
	})

	assert := suite.Assert()
	assert.Equal("Cash", wallet.Name)
	assert.Equal("wallet", wallet.Icon)
	assert.Equal("#4CAF50", wallet.Color)
}

func (suite *TestSuiteStandard) TestWalletDeleteReferenced() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	_ = suite.createTestTransaction(models.Transaction{
		UserID:     user.ID,
		Amount:     decimal.NewFromFloat(10),
		CategoryID: category.ID,
		WalletID:   wallet.ID,
	})

	err := models.DB.Delete(&wallet).Error
	suite.Assert().ErrorIs(err, models.ErrStillReferenced)

	var count int64
	err = models.DB.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(1), count, "wallet must survive the refused delete")
}

func (suite *TestSuiteStandard) TestWalletDeleteUnreferenced() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})

	err := models.DB.Delete(&wallet).Error
	suite.Assert().NoError(err)
}

func (suite *TestSuiteStandard) TestWalletTransactions() {
	user := suite.createTestUser(models.User{})
	wallet := suite.createTestWallet(models.Wallet{UserID: user.ID})
	other := suite.createTestWallet(models.Wallet{UserID: user.ID})
	category := suite.createTestCategory(models.Category{UserID: user.ID})

	for _, walletID := range []uint64{wallet.ID, wallet.ID, other.ID} {
		_ = suite.createTestTransaction(models.Transaction{
			UserID:     user.ID,
			Amount:     decimal.NewFromFloat(5),
			CategoryID: category.ID,
			WalletID:   walletID,
		})
	}

	transactions, err := wallet.Transactions(models.DB)
	suite.Require().NoError(err)
	suite.Assert().Len(transactions, 2)
}
