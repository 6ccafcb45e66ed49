package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"urbanhaven/dto"

	"github.com/google/uuid"
)

// MockTransactionPrefix marks dev-mode transaction codes; callbacks carrying
// it skip signature verification and the gateway status re-check.
const MockTransactionPrefix = "MOCK-"

// EsewaConfig holds the gateway settings, read from the environment
type EsewaConfig struct {
	SecretKey    string
	MerchantCode string
	PaymentURL   string
	VerifyURL    string
	FrontendURL  string
	DevMode      bool
}

// EsewaService builds signed payment requests and verifies gateway callbacks
type EsewaService struct {
	cfg    EsewaConfig
	client *http.Client
}

func NewEsewaService(cfg EsewaConfig) *EsewaService {
	return &EsewaService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *EsewaService) Config() EsewaConfig {
	return s.cfg
}

// GenerateSignature computes the base64 HMAC-SHA256 of message
func (s *EsewaService) GenerateSignature(message string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.SecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// NewTransactionUUID derives a soft-unique transaction id from the booking id
// and the current timestamp
func (s *EsewaService) NewTransactionUUID(bookingID uint) string {
	return fmt.Sprintf("UH-%d-%d", bookingID, time.Now().UnixMilli())
}

// CreatePaymentPayload builds the signed form the client posts to eSewa.
// The canonical message is the ordered field list total_amount,
// transaction_uuid, product_code rendered as field=value pairs.
func (s *EsewaService) CreatePaymentPayload(amount int, transactionUUID string) dto.EsewaPaymentPayload {
	totalAmount := strconv.Itoa(amount)
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, s.cfg.MerchantCode)
	signature := s.GenerateSignature(message)

	return dto.EsewaPaymentPayload{
		Amount:                totalAmount,
		TaxAmount:             "0",
		TotalAmount:           totalAmount,
		TransactionUUID:       transactionUUID,
		ProductCode:           s.cfg.MerchantCode,
		ProductServiceCharge:  "0",
		ProductDeliveryCharge: "0",
		SuccessURL:            s.cfg.FrontendURL + "/payment/success",
		FailureURL:            s.cfg.FrontendURL + "/payment/failure",
		SignedFieldNames:      "total_amount,transaction_uuid,product_code",
		Signature:             signature,
	}
}

// DecodeCallback decodes the base64 JSON blob the gateway posts back
func (s *EsewaService) DecodeCallback(data string) (dto.EsewaCallback, error) {
	var cb dto.EsewaCallback
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return cb, fmt.Errorf("cannot decode payment data: %w", err)
	}
	if err := json.Unmarshal(raw, &cb); err != nil {
		return cb, fmt.Errorf("cannot parse payment data: %w", err)
	}
	return cb, nil
}

// EncodeCallback is the inverse of DecodeCallback, used for mock payments
func (s *EsewaService) EncodeCallback(cb dto.EsewaCallback) string {
	raw, _ := json.Marshal(cb)
	return base64.StdEncoding.EncodeToString(raw)
}

// BuildMockCallback synthesizes a COMPLETE dev-mode response so verify can be
// exercised without the live gateway
func (s *EsewaService) BuildMockCallback(amount int, transactionUUID string) dto.EsewaCallback {
	return dto.EsewaCallback{
		TransactionCode:  MockTransactionPrefix + uuid.NewString(),
		Status:           "COMPLETE",
		TotalAmount:      strconv.Itoa(amount),
		TransactionUUID:  transactionUUID,
		ProductCode:      s.cfg.MerchantCode,
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code",
		Signature:        "mock_signature",
	}
}

// IsMockTransaction reports whether the callback came from dev mode
func IsMockTransaction(transactionCode string) bool {
	return strings.HasPrefix(transactionCode, MockTransactionPrefix)
}

// CanonicalMessage rebuilds the signed message from the declared field order
// and the callback's own values
func CanonicalMessage(signedFieldNames string, cb dto.EsewaCallback) string {
	fields := strings.Split(signedFieldNames, ",")
	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, field+"="+callbackFieldValue(cb, field))
	}
	return strings.Join(pairs, ",")
}

func callbackFieldValue(cb dto.EsewaCallback, field string) string {
	switch field {
	case "transaction_code":
		return cb.TransactionCode
	case "status":
		return cb.Status
	case "total_amount":
		return cb.TotalAmount
	case "transaction_uuid":
		return cb.TransactionUUID
	case "product_code":
		return cb.ProductCode
	case "signed_field_names":
		return cb.SignedFieldNames
	default:
		return ""
	}
}

// VerifyCallbackSignature recomputes the HMAC over the callback's canonical
// message and compares it byte-for-byte with the provided signature
func (s *EsewaService) VerifyCallbackSignature(cb dto.EsewaCallback) bool {
	if cb.SignedFieldNames == "" || cb.Signature == "" {
		return false
	}
	expected := s.GenerateSignature(CanonicalMessage(cb.SignedFieldNames, cb))
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}

// CheckTransactionStatus re-confirms a transaction against the gateway's own
// status endpoint. The request carries the client timeout; callers decide
// whether a failure is fatal.
func (s *EsewaService) CheckTransactionStatus(totalAmount, transactionUUID string) (string, error) {
	params := url.Values{}
	params.Set("product_code", s.cfg.MerchantCode)
	params.Set("total_amount", totalAmount)
	params.Set("transaction_uuid", transactionUUID)

	resp, err := s.client.Get(s.cfg.VerifyURL + "?" + params.Encode())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("cannot parse gateway status response: %w", err)
	}
	return body.Status, nil
}
