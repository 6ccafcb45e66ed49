package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanhaven/constants"
	"urbanhaven/errors"
	"urbanhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db      *gorm.DB
	esewa   *EsewaService
	svc     *PaymentService
	room    *models.Room
	booking *models.Booking
}

func newPaymentFixture(t *testing.T, cfg EsewaConfig) *paymentFixture {
	t.Helper()

	db := setupTestDB(t)
	room := createTestRoom(t, db, 1000)

	booking, err := newTestBookingService(db).CreateBooking(7, CreateBookingParams{
		RoomID:     room.ID,
		StartDate:  date(2026, 1, 1),
		EndDate:    date(2026, 2, 1),
		RenterInfo: testRenterInfo(),
	})
	require.NoError(t, err)

	if cfg.SecretKey == "" {
		cfg.SecretKey = "8gBm/:&EnhH.1/q"
	}
	if cfg.MerchantCode == "" {
		cfg.MerchantCode = "EPAYTEST"
	}
	esewa := NewEsewaService(cfg)

	return &paymentFixture{
		db:      db,
		esewa:   esewa,
		svc:     NewPaymentService(PaymentServiceOptions{DB: db, Esewa: esewa}),
		room:    room,
		booking: booking,
	}
}

func (f *paymentFixture) reload(t *testing.T) *models.Booking {
	t.Helper()
	var booking models.Booking
	require.NoError(t, f.db.First(&booking, f.booking.ID).Error)
	return &booking
}

func TestInitiatePaymentStoresTransaction(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.PaymentData.Signature)
	assert.Equal(t, "1300", resp.PaymentData.TotalAmount)
	assert.True(t, resp.DevMode)
	assert.NotEmpty(t, resp.MockData)

	stored := f.reload(t)
	assert.NotEmpty(t, stored.EsewaTransaction.TransactionUUID)
	assert.Equal(t, 1300, stored.EsewaTransaction.Amount)
	assert.Equal(t, stored.EsewaTransaction.TransactionUUID, resp.PaymentData.TransactionUUID)
}

func TestInitiatePaymentForbiddenForOtherUser(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	_, err := f.svc.InitiatePayment(f.booking.ID, 42)
	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))
}

func TestInitiatePaymentAlreadyPaid(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})
	require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).
		Update("payment_status", constants.PaymentStatusPaid).Error)

	_, err := f.svc.InitiatePayment(f.booking.ID, 7)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAlreadyPaid))
}

func TestVerifyPaymentMockFlow(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	verified, err := f.svc.VerifyPayment(resp.MockData)
	require.NoError(t, err)

	assert.Equal(t, constants.BookingStatusConfirmed, verified.Status)
	assert.Equal(t, constants.PaymentStatusPaid, verified.PaymentStatus)
	assert.NotEmpty(t, verified.EsewaTransaction.RefID)
	assert.NotNil(t, verified.EsewaTransaction.PaidAt)

	stored := f.reload(t)
	assert.Equal(t, constants.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, constants.PaymentStatusPaid, stored.PaymentStatus)

	var room models.Room
	require.NoError(t, f.db.First(&room, f.room.ID).Error)
	assert.Equal(t, constants.RoomStatusRented, room.Status)
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	first, err := f.svc.VerifyPayment(resp.MockData)
	require.NoError(t, err)
	firstPaidAt := f.reload(t).EsewaTransaction.PaidAt

	// Gateway retry delivers the same payload again
	second, err := f.svc.VerifyPayment(resp.MockData)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, constants.PaymentStatusPaid, second.PaymentStatus)
	assert.Equal(t, firstPaidAt, f.reload(t).EsewaTransaction.PaidAt)
}

func TestVerifyPaymentRejectsTamperedSignature(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: false})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(1300, resp.PaymentData.TransactionUUID)
	cb.TransactionCode = "000XYZ" // a real code takes the signed path
	cb.Signature = "forged"

	_, err = f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSignature))

	stored := f.reload(t)
	assert.Equal(t, constants.PaymentStatusUnpaid, stored.PaymentStatus)
	assert.Equal(t, constants.BookingStatusPending, stored.Status)
}

func TestVerifyPaymentRejectsFailedStatus(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(1300, resp.PaymentData.TransactionUUID)
	cb.Status = "PENDING"

	_, err = f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	assert.True(t, errors.HasCode(err, errors.ErrCodePaymentFailed))
	assert.Equal(t, constants.PaymentStatusUnpaid, f.reload(t).PaymentStatus)
}

func TestVerifyPaymentRejectsShortAmount(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(500, resp.PaymentData.TransactionUUID)

	_, err = f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	assert.True(t, errors.HasCode(err, errors.ErrCodeAmountMismatch))
	assert.Equal(t, constants.PaymentStatusUnpaid, f.reload(t).PaymentStatus)
}

func TestVerifyPaymentRejectsCancelledBooking(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})
	bookingSvc := newTestBookingService(f.db)

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	// Renter abandons the booking while the gateway callback is in flight
	require.NoError(t, bookingSvc.CancelBooking(f.booking.ID, 7))

	// Someone else takes the freed dates
	rebooked, err := bookingSvc.CreateBooking(8, CreateBookingParams{
		RoomID:     f.room.ID,
		StartDate:  date(2026, 1, 1),
		EndDate:    date(2026, 2, 1),
		RenterInfo: testRenterInfo(),
	})
	require.NoError(t, err)

	// The late callback must not resurrect the cancelled booking
	_, err = f.svc.VerifyPayment(resp.MockData)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	stored := f.reload(t)
	assert.Equal(t, constants.BookingStatusCancelled, stored.Status)
	assert.Equal(t, constants.PaymentStatusUnpaid, stored.PaymentStatus)

	var other models.Booking
	require.NoError(t, f.db.First(&other, rebooked.ID).Error)
	assert.Equal(t, constants.BookingStatusPending, other.Status)

	var room models.Room
	require.NoError(t, f.db.First(&room, f.room.ID).Error)
	assert.Equal(t, constants.RoomStatusPending, room.Status)
}

func TestVerifyPaymentUnknownTransaction(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	cb := f.esewa.BuildMockCallback(1300, "UH-999-0")
	_, err := f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestVerifyPaymentAcceptsFormattedAmount(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(1300, resp.PaymentData.TransactionUUID)
	cb.TotalAmount = "1,300.0"

	verified, err := f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, verified.PaymentStatus)
}

func TestVerifyPaymentRechecksGateway(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"COMPLETE"}`))
	}))
	defer gateway.Close()

	f := newPaymentFixture(t, EsewaConfig{DevMode: false, VerifyURL: gateway.URL})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(1300, resp.PaymentData.TransactionUUID)
	cb.TransactionCode = "000XYZ"
	cb.Signature = f.esewa.GenerateSignature(CanonicalMessage(cb.SignedFieldNames, cb))

	verified, err := f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, verified.PaymentStatus)
}

func TestVerifyPaymentGatewayDisagrees(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"PENDING"}`))
	}))
	defer gateway.Close()

	f := newPaymentFixture(t, EsewaConfig{DevMode: false, VerifyURL: gateway.URL})

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)

	cb := f.esewa.BuildMockCallback(1300, resp.PaymentData.TransactionUUID)
	cb.TransactionCode = "000XYZ"
	cb.Signature = f.esewa.GenerateSignature(CanonicalMessage(cb.SignedFieldNames, cb))

	_, err = f.svc.VerifyPayment(f.esewa.EncodeCallback(cb))
	assert.True(t, errors.HasCode(err, errors.ErrCodePaymentFailed))
	assert.Equal(t, constants.PaymentStatusUnpaid, f.reload(t).PaymentStatus)
}

func TestGetPaymentStatus(t *testing.T) {
	f := newPaymentFixture(t, EsewaConfig{DevMode: true})

	status, err := f.svc.GetPaymentStatus(f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusUnpaid, status.Status)
	assert.Equal(t, 1300, status.TotalPrice)
	assert.Empty(t, status.TransactionUUID)

	resp, err := f.svc.InitiatePayment(f.booking.ID, 7)
	require.NoError(t, err)
	_, err = f.svc.VerifyPayment(resp.MockData)
	require.NoError(t, err)

	status, err = f.svc.GetPaymentStatus(f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, status.Status)
	assert.Equal(t, constants.BookingStatusConfirmed, status.BookingStatus)
	assert.NotEmpty(t, status.RefID)
}
