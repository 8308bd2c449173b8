package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/email"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/whatsapp"
	"github.com/dteti-sys-rsch/wafi-dental-care/pkg/metrics"
)

const defaultSuggestion = "Tidak ada saran khusus"

// Receipt carries everything needed to compose a transaction receipt.
type Receipt struct {
	Transaction *model.Transaction
	Patient     *model.Patient
	Doctor      *model.User
	Branch      *model.Branch
	// Suggestion is the diagnosis text of the doctor's latest assessment;
	// empty when the latest assessment was authored by someone else.
	Suggestion string
}

// Service dispatches transaction receipts over WhatsApp and, when the
// patient has an email address, over SMTP. Dispatch never blocks the
// caller and failures are logged, not surfaced.
type Service struct {
	wa      whatsapp.Client
	email   email.Service
	metrics *metrics.Metrics
	timeout time.Duration
}

func NewService(wa whatsapp.Client, emailSvc email.Service, m *metrics.Metrics, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{wa: wa, email: emailSvc, metrics: m, timeout: timeout}
}

// SendReceipt fires the notification in the background. The HTTP response
// to the transaction caller must not depend on its outcome.
func (s *Service) SendReceipt(receipt *Receipt) {
	go s.dispatch(receipt)
}

func (s *Service) dispatch(receipt *Receipt) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	message := ComposeReceipt(receipt)

	if s.wa != nil {
		if err := s.wa.SendMessage(ctx, receipt.Patient.WAPhoneNumber, message); err != nil {
			s.countFailure("whatsapp")
			log.Error().Err(err).
				Str("transaction_id", receipt.Transaction.ID.String()).
				Msg("failed to send WhatsApp receipt")
		} else {
			s.countSuccess("whatsapp")
		}
	}

	if s.email != nil && receipt.Patient.Email != "" {
		subject := fmt.Sprintf("Bukti Transaksi %s", ReferenceCode(receipt.Transaction.ID))
		if err := s.email.SendReceipt(ctx, receipt.Patient.Email, subject, message); err != nil {
			s.countFailure("email")
			log.Error().Err(err).
				Str("transaction_id", receipt.Transaction.ID.String()).
				Msg("failed to send email receipt")
		} else {
			s.countSuccess("email")
		}
	}
}

func (s *Service) countSuccess(channel string) {
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(channel).Inc()
	}
}

func (s *Service) countFailure(channel string) {
	if s.metrics != nil {
		s.metrics.NotificationsFailed.WithLabelValues(channel).Inc()
	}
}

// ComposeReceipt renders the receipt message sent to the patient.
func ComposeReceipt(receipt *Receipt) string {
	suggestion := receipt.Suggestion
	if suggestion == "" {
		suggestion = defaultSuggestion
	}

	return fmt.Sprintf(`Hai %s,

Terima kasih telah menggunakan layanan kami!

================================
No. Transaksi : %s
Tanggal : %s
Jumlah : Rp. %s,-
Metode Bayar : %s
Status : Lunas
================================

Dokter : %s
Lokasi : %s, %s

SARAN MEDIS:
%s

Semoga lekas sembuh!
Jika ada keluhan, jangan ragu untuk menghubungi kami.`,
		receipt.Patient.FullName,
		ReferenceCode(receipt.Transaction.ID),
		FormatDate(receipt.Transaction.Date),
		FormatAmount(receipt.Transaction.Amount),
		receipt.Transaction.PaymentMethod,
		receipt.Doctor.Username,
		receipt.Branch.Name,
		receipt.Branch.Location,
		suggestion,
	)
}

// ReferenceCode derives a human-readable reference from the transaction id:
// the first 10 hex characters, uppercased.
func ReferenceCode(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return strings.ToUpper(hex[:10])
}

// FormatDate renders dd/mm/yy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/06")
}

// FormatAmount renders the amount with dot thousand separators.
func FormatAmount(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
