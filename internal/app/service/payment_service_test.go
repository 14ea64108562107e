package service

import (
	"testing"

	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentServiceTest(t *testing.T) (PaymentService, SettingService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	settingSvc := NewSettingService(repository.NewSettingRepository(testDB))
	return NewPaymentService(settingSvc), settingSvc
}

func findMethod(t *testing.T, methods []PaymentMethodInfo, method model.PaymentMethod) PaymentMethodInfo {
	t.Helper()
	for _, m := range methods {
		if m.Method == method {
			return m
		}
	}
	t.Fatalf("không tìm thấy phương thức %s", method)
	return PaymentMethodInfo{}
}

func TestPaymentService_ListMethods_Defaults(t *testing.T) {
	paymentService, _ := setupPaymentServiceTest(t)

	methods, err := paymentService.ListMethods()
	require.NoError(t, err)
	require.Len(t, methods, 5)

	assert.True(t, findMethod(t, methods, model.PaymentMethodCOD).Enabled)
	assert.True(t, findMethod(t, methods, model.PaymentMethodBankTransfer).Enabled)
	assert.True(t, findMethod(t, methods, model.PaymentMethodMomo).Enabled)
	assert.False(t, findMethod(t, methods, model.PaymentMethodVNPay).Enabled)
	assert.False(t, findMethod(t, methods, model.PaymentMethodStripe).Enabled)

	cod := findMethod(t, methods, model.PaymentMethodCOD)
	assert.Equal(t, "cod", cod.Alias)
	assert.NotEmpty(t, cod.Label)
}

func TestPaymentService_ListMethods_EnabledFromSettings(t *testing.T) {
	paymentService, settingSvc := setupPaymentServiceTest(t)

	err := settingSvc.UpdateSettings(map[string]string{
		"payment_vnpay_enabled": "true",
		"payment_momo_enabled":  "false",
	})
	require.NoError(t, err)

	methods, err := paymentService.ListMethods()
	require.NoError(t, err)

	assert.True(t, findMethod(t, methods, model.PaymentMethodVNPay).Enabled)
	assert.False(t, findMethod(t, methods, model.PaymentMethodMomo).Enabled)
}

func TestPaymentService_ListMethods_BankDetails(t *testing.T) {
	paymentService, settingSvc := setupPaymentServiceTest(t)

	err := settingSvc.UpdateSettings(map[string]string{
		model.SettingBankName:          "Vietcombank",
		model.SettingBankAccountNumber: "0011004455667",
		model.SettingBankAccountName:   "NGO VAN MINH",
	})
	require.NoError(t, err)

	methods, err := paymentService.ListMethods()
	require.NoError(t, err)

	bank := findMethod(t, methods, model.PaymentMethodBankTransfer)
	assert.Equal(t, "Vietcombank", bank.Details["bank_name"])
	assert.Equal(t, "0011004455667", bank.Details["account_number"])
	assert.Equal(t, "NGO VAN MINH", bank.Details["account_name"])
}
