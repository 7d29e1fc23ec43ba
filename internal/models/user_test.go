package models_test

import (
	"github.com/pocketledger/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	user := suite.createTestUser(models.User{
		Name:  "  Tom  ",
		Email: "  Tom@Example.com ",
	})

	assert := suite.Assert()
	assert.Equal("Tom", user.Name)
	assert.Equal("tom@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	_ = suite.createTestUser(models.User{Email: "tom@example.com"})

	user := models.User{Email: "tom@example.com"}
	err := user.SetPassword("secret")
	suite.Require().NoError(err)

	err = models.DB.Create(&user).Error
	suite.Assert().ErrorIs(err, models.ErrEmailNotUnique)
}

func (suite *TestSuiteStandard) TestUserPassword() {
	user := models.User{}
	err := user.SetPassword("correct horse battery staple")
	suite.Require().NoError(err)

	assert := suite.Assert()
	assert.NotEqual("correct horse battery staple", user.Password, "password must not be stored in plain text")
	assert.True(user.CheckPassword("correct horse battery staple"))
	assert.False(user.CheckPassword("incorrect horse"))
}

func (suite *TestSuiteStandard) TestUserPasswordNotSerialized() {
	user := suite.createTestUser(models.User{})

	var found models.User
	err := models.DB.First(&found, user.ID).Error
	suite.Require().NoError(err)

	suite.Assert().NotEmpty(found.Password, "hash must survive the round trip")
}
