package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"ravi@example.com", "a.b+tag@shop.co.in", "X_9@sub.domain.org"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "plain", "no@tld", "@missing.com", "spaces in@mail.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.NoError(t, ValidatePhone("6000000000"))

	assert.Error(t, ValidatePhone("1234567890"), "must start with 6-9")
	assert.Error(t, ValidatePhone("98765"), "too short")
	assert.Error(t, ValidatePhone("98765432100"), "too long")
	assert.Error(t, ValidatePhone("98765abc10"))
}

func TestValidatePincode(t *testing.T) {
	assert.NoError(t, ValidatePincode("641001"))
	assert.Error(t, ValidatePincode("041001"), "cannot start with 0")
	assert.Error(t, ValidatePincode("6410"), "too short")
	assert.Error(t, ValidatePincode("6410011"), "too long")
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("passw0rd"))
	assert.Error(t, ValidatePassword("short1"), "under 8 characters")
	assert.Error(t, ValidatePassword("lettersonly"), "needs a digit")
	assert.Error(t, ValidatePassword("12345678"), "needs a letter")
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("name", "Ravi Kumar"))
	assert.NoError(t, ValidateName("name", "O'Brien"))
	assert.Error(t, ValidateName("name", "R"), "single character")
	assert.Error(t, ValidateName("name", "Ravi123"))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice("0"))
	assert.NoError(t, ValidatePrice("99.50"))

	err := ValidatePrice("-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than or equal to 0")

	assert.Error(t, ValidatePrice("abc"))
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity("1"))
	assert.Error(t, ValidateQuantity("0"))
	assert.Error(t, ValidateQuantity("-2"))
	assert.Error(t, ValidateQuantity("1.5"))
}

func TestValidateForm(t *testing.T) {
	rules := map[string][]Rule{
		"email":    {ValidateEmail},
		"phone":    {ValidatePhone},
		"price":    {ValidatePrice},
		"name":     {Named("name", ValidateName)},
		"password": {ValidatePassword},
	}

	res := ValidateForm(map[string]string{
		"email":    "ravi@example.com",
		"phone":    "9876543210",
		"price":    "250",
		"name":     "Ravi",
		"password": "passw0rd",
	}, rules)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)

	res = ValidateForm(map[string]string{
		"email":    "not-an-email",
		"phone":    "12345",
		"price":    "-5",
		"name":     "Ravi",
		"password": "passw0rd",
	}, rules)
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 3, "every invalid field is reported")
	assert.Contains(t, res.Errors["price"], "greater than or equal to 0")
}

func TestValidateFormStopsAtFirstFailingRulePerField(t *testing.T) {
	rules := map[string][]Rule{
		"name": {
			Named("name", func(field, val string) error { return ValidateRequired(field, val) }),
			Named("name", ValidateName),
		},
	}
	res := ValidateForm(map[string]string{"name": ""}, rules)
	require.False(t, res.IsValid)
	assert.Equal(t, "name is required", res.Errors["name"])
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, ValidateString("brand", "Havells", 2, 50))
	assert.Error(t, ValidateString("brand", "H", 2, 50))
	assert.Error(t, ValidateString("brand", string(make([]rune, 51)), 2, 50))
}
