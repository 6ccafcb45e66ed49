package dto

import "time"

// InitiatePaymentRequest starts an eSewa payment for a booking
type InitiatePaymentRequest struct {
	BookingID uint `json:"bookingId" binding:"required"`
}

// EsewaPaymentPayload is the signed form posted to the gateway
type EsewaPaymentPayload struct {
	Amount                string `json:"amount"`
	TaxAmount             string `json:"tax_amount"`
	TotalAmount           string `json:"total_amount"`
	TransactionUUID       string `json:"transaction_uuid"`
	ProductCode           string `json:"product_code"`
	ProductServiceCharge  string `json:"product_service_charge"`
	ProductDeliveryCharge string `json:"product_delivery_charge"`
	SuccessURL            string `json:"success_url"`
	FailureURL            string `json:"failure_url"`
	SignedFieldNames      string `json:"signed_field_names"`
	Signature             string `json:"signature"`
}

// InitiatePaymentResponse hands the client everything needed to redirect
type InitiatePaymentResponse struct {
	PaymentURL  string              `json:"paymentUrl"`
	PaymentData EsewaPaymentPayload `json:"paymentData"`
	DevMode     bool                `json:"devMode,omitempty"`
	MockData    string              `json:"mockData,omitempty"`
}

// VerifyPaymentRequest carries the base64 blob the gateway posts back
type VerifyPaymentRequest struct {
	Data string `json:"data" binding:"required"`
}

// EsewaCallback is the decoded gateway callback body
type EsewaCallback struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// VerifiedBookingResponse is the confirmed booking summary returned by verify
type VerifiedBookingResponse struct {
	ID              uint       `json:"id"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	TotalPrice      int        `json:"totalPrice"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	Duration        int        `json:"duration"`
	RoomTitle       string     `json:"roomTitle"`
	TransactionUUID string     `json:"transactionUuid"`
	RefID           string     `json:"refId"`
	PaidAt          *time.Time `json:"paidAt"`
}

// PaymentStatusResponse answers the payment status query
type PaymentStatusResponse struct {
	Status          string     `json:"status"`
	BookingStatus   string     `json:"bookingStatus"`
	TotalPrice      int        `json:"totalPrice"`
	TransactionUUID string     `json:"transactionUuid,omitempty"`
	RefID           string     `json:"refId,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
}
