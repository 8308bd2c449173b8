package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{150000, "150.000"},
		{1234567, "1.234.567"},
		{-25000, "-25.000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatAmount(tc.amount), "amount %d", tc.amount)
	}
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "20/08/26", FormatDate(date))
}

func TestReferenceCode(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")
	code := ReferenceCode(id)
	assert.Equal(t, "A1B2C3D4E5", code)
	assert.Len(t, code, 10)
}

func receiptFixture() *Receipt {
	txn := &model.Transaction{
		Date:          time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Amount:        150000,
		PaymentMethod: model.PaymentQRIS,
	}
	txn.ID = uuid.New()

	return &Receipt{
		Transaction: txn,
		Patient:     &model.Patient{FullName: "Budi Santoso", WAPhoneNumber: "628123456789"},
		Doctor:      &model.User{Username: "drg.siti"},
		Branch:      &model.Branch{Name: "Pusat", Location: "Yogyakarta"},
	}
}

func TestComposeReceipt(t *testing.T) {
	receipt := receiptFixture()
	receipt.Suggestion = "Kontrol kembali dalam 2 minggu"

	message := ComposeReceipt(receipt)

	assert.Contains(t, message, "Hai Budi Santoso")
	assert.Contains(t, message, "Tanggal : 20/08/26")
	assert.Contains(t, message, "Jumlah : Rp. 150.000,-")
	assert.Contains(t, message, "Metode Bayar : QRIS")
	assert.Contains(t, message, "Status : Lunas")
	assert.Contains(t, message, "Dokter : drg.siti")
	assert.Contains(t, message, "Lokasi : Pusat, Yogyakarta")
	assert.Contains(t, message, "Kontrol kembali dalam 2 minggu")
}

func TestComposeReceiptDefaultSuggestion(t *testing.T) {
	message := ComposeReceipt(receiptFixture())
	assert.Contains(t, message, "Tidak ada saran khusus")
}
