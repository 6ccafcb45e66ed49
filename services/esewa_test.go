package services

import (
	"testing"

	"urbanhaven/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEsewaService() *EsewaService {
	return NewEsewaService(EsewaConfig{
		SecretKey:    "8gBm/:&EnhH.1/q",
		MerchantCode: "EPAYTEST",
		PaymentURL:   "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		FrontendURL:  "http://localhost:3000",
	})
}

func TestGenerateSignatureDeterministic(t *testing.T) {
	svc := newTestEsewaService()

	message := "total_amount=1300,transaction_uuid=UH-1-1700000000000,product_code=EPAYTEST"
	first := svc.GenerateSignature(message)
	second := svc.GenerateSignature(message)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, svc.GenerateSignature(message+"x"))
}

func TestCreatePaymentPayload(t *testing.T) {
	svc := newTestEsewaService()

	payload := svc.CreatePaymentPayload(1300, "UH-1-123")

	assert.Equal(t, "1300", payload.TotalAmount)
	assert.Equal(t, "1300", payload.Amount)
	assert.Equal(t, "UH-1-123", payload.TransactionUUID)
	assert.Equal(t, "EPAYTEST", payload.ProductCode)
	assert.Equal(t, "total_amount,transaction_uuid,product_code", payload.SignedFieldNames)
	assert.Equal(t, "http://localhost:3000/payment/success", payload.SuccessURL)

	expected := svc.GenerateSignature("total_amount=1300,transaction_uuid=UH-1-123,product_code=EPAYTEST")
	assert.Equal(t, expected, payload.Signature)
}

func TestCanonicalMessageFollowsDeclaredOrder(t *testing.T) {
	cb := dto.EsewaCallback{
		TransactionCode: "000XYZ",
		Status:          "COMPLETE",
		TotalAmount:     "1,300.0",
		TransactionUUID: "UH-1-123",
		ProductCode:     "EPAYTEST",
	}

	message := CanonicalMessage("transaction_code,status,total_amount,transaction_uuid,product_code", cb)
	assert.Equal(t,
		"transaction_code=000XYZ,status=COMPLETE,total_amount=1,300.0,transaction_uuid=UH-1-123,product_code=EPAYTEST",
		message)
}

func TestVerifyCallbackSignature(t *testing.T) {
	svc := newTestEsewaService()

	cb := dto.EsewaCallback{
		TransactionCode:  "000XYZ",
		Status:           "COMPLETE",
		TotalAmount:      "1300",
		TransactionUUID:  "UH-1-123",
		ProductCode:      "EPAYTEST",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code",
	}
	cb.Signature = svc.GenerateSignature(CanonicalMessage(cb.SignedFieldNames, cb))

	assert.True(t, svc.VerifyCallbackSignature(cb))

	tampered := cb
	tampered.TotalAmount = "1"
	assert.False(t, svc.VerifyCallbackSignature(tampered))

	unsigned := cb
	unsigned.Signature = ""
	assert.False(t, svc.VerifyCallbackSignature(unsigned))
}

func TestMockCallbackRoundTrip(t *testing.T) {
	svc := newTestEsewaService()

	mock := svc.BuildMockCallback(1300, "UH-1-123")
	assert.True(t, IsMockTransaction(mock.TransactionCode))
	assert.Equal(t, "COMPLETE", mock.Status)
	assert.Equal(t, "1300", mock.TotalAmount)

	decoded, err := svc.DecodeCallback(svc.EncodeCallback(mock))
	require.NoError(t, err)
	assert.Equal(t, mock, decoded)
}

func TestDecodeCallbackRejectsGarbage(t *testing.T) {
	svc := newTestEsewaService()

	_, err := svc.DecodeCallback("not base64!!")
	assert.Error(t, err)

	_, err = svc.DecodeCallback("bm90IGpzb24=")
	assert.Error(t, err)
}

func TestIsMockTransaction(t *testing.T) {
	assert.True(t, IsMockTransaction("MOCK-abc"))
	assert.False(t, IsMockTransaction("000XYZ"))
	assert.False(t, IsMockTransaction(""))
}
