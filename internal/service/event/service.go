package event

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dteti-sys-rsch/wafi-dental-care/internal/model"
	"github.com/dteti-sys-rsch/wafi-dental-care/internal/repository"
)

// Event types recorded on entity mutations.
const (
	TypeBranchCreated      = "BRANCH_CREATED"
	TypeBranchUpdated      = "BRANCH_UPDATED"
	TypeBranchDeleted      = "BRANCH_DELETED"
	TypeUserCreated        = "USER_CREATED"
	TypeUserUpdated        = "USER_UPDATED"
	TypeUserDeleted        = "USER_DELETED"
	TypePatientCreated     = "PATIENT_CREATED"
	TypePatientUpdated     = "PATIENT_UPDATED"
	TypePatientDeleted     = "PATIENT_DELETED"
	TypeTransactionCreated = "TRANSACTION_CREATED"
)

// Service records mutation events into the outbox. Recording is
// best-effort: a failed write is logged, never surfaced to the caller.
type Service struct {
	outboxRepo repository.OutboxRepository
}

func NewService(outboxRepo repository.OutboxRepository) *Service {
	return &Service{outboxRepo: outboxRepo}
}

func (s *Service) Record(ctx context.Context, eventType string, payload interface{}) {
	if s == nil || s.outboxRepo == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to record outbox event")
	}
}
