package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"WellCheck/internal/model"
	"WellCheck/internal/model/dto"
	"WellCheck/internal/store"
	pkgerrors "WellCheck/pkg/errors"
	"WellCheck/pkg/snowflake"
	"WellCheck/storage/database"
	"WellCheck/utils"
)

var (
	attestationService *AttestationService
	attestationOnce    sync.Once
)

func Attestations() *AttestationService {
	attestationOnce.Do(func() {
		attestationService = NewAttestationService(
			store.NewAttestationStore(database.DB()),
			store.NewRecipientStore(database.DB()),
		)
	})
	return attestationService
}

type AttestationService struct {
	attestations *store.AttestationStore
	recipients   *store.RecipientStore
}

func NewAttestationService(attestations *store.AttestationStore, recipients *store.RecipientStore) *AttestationService {
	return &AttestationService{attestations: attestations, recipients: recipients}
}

// List 分页列出账户的签到记录
func (s *AttestationService) List(ctx context.Context, accountID int64, query dto.ListAttestationsQuery) ([]*dto.AttestationData, int64, error) {
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	offset := int(query.Cursor)
	if offset < 0 {
		offset = 0
	}

	var responded *bool
	switch query.Status {
	case "responded":
		v := true
		responded = &v
	case "pending":
		v := false
		responded = &v
	}

	attestations, total, err := s.attestations.ListForAccount(ctx, accountID, responded, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attestations: %w", err)
	}

	// public_id 映射，记录里存的是内部 recipient ID
	recipientIDs := make([]int64, 0, len(attestations))
	for _, a := range attestations {
		recipientIDs = append(recipientIDs, a.RecipientID)
	}
	recipients, err := s.recipients.FindByIDs(ctx, recipientIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	publicIDs := make(map[int64]int64, len(recipients))
	for _, r := range recipients {
		publicIDs[r.ID] = r.PublicID
	}

	result := make([]*dto.AttestationData, 0, len(attestations))
	for _, a := range attestations {
		result = append(result, toAttestationData(a, publicIDs[a.RecipientID]))
	}
	return result, total, nil
}

// Upsert 手工补录或刷新某人当天的记录，走和调度相同的幂等路径
func (s *AttestationService) Upsert(ctx context.Context, accountID int64, req dto.UpsertAttestationRequest) (*dto.AttestationData, error) {
	var recipientPublicID int64
	if _, err := fmt.Sscanf(req.RecipientID, "%d", &recipientPublicID); err != nil {
		return nil, pkgerrors.RecipientNotFound
	}

	recipient, err := s.recipients.GetByPublicID(ctx, accountID, recipientPublicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.RecipientNotFound
		}
		return nil, fmt.Errorf("failed to query recipient: %w", err)
	}

	messageSent := time.Now().UTC()
	if req.MessageSent != nil {
		messageSent = req.MessageSent.UTC()
	}
	dayStart := utils.StartOfDay(messageSent)

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate attestation ID: %w", err)
	}

	attestation := &model.Attestation{
		PublicID:    publicID,
		AccountID:   accountID,
		RecipientID: recipient.ID,
		PhoneNumber: recipient.PrimaryPhone,
		MessageSent: messageSent,
	}

	stored, err := s.attestations.Upsert(ctx, attestation, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attestation: %w", err)
	}

	if req.PassCheck != nil {
		now := time.Now().UTC()
		if err := s.attestations.Resolve(ctx, stored.ID, now, *req.PassCheck); err != nil {
			return nil, fmt.Errorf("failed to resolve attestation: %w", err)
		}
		stored.ResponseReceived = &now
		stored.PassCheck = req.PassCheck
	}

	return toAttestationData(stored, recipient.PublicID), nil
}

// Get 按对外 ID 查询
func (s *AttestationService) Get(ctx context.Context, accountID int64, attestationID string) (*dto.AttestationData, error) {
	var publicID int64
	if _, err := fmt.Sscanf(attestationID, "%d", &publicID); err != nil {
		return nil, pkgerrors.AttestationNotFound
	}

	attestation, err := s.attestations.GetByPublicID(ctx, accountID, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.AttestationNotFound
		}
		return nil, fmt.Errorf("failed to query attestation: %w", err)
	}

	recipient, err := s.recipients.GetByID(ctx, attestation.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	return toAttestationData(attestation, recipient.PublicID), nil
}

func toAttestationData(a *model.Attestation, recipientPublicID int64) *dto.AttestationData {
	status := "pending"
	if a.PassCheck != nil {
		if *a.PassCheck {
			status = "resolved-healthy"
		} else {
			status = "resolved-flagged"
		}
	}

	return &dto.AttestationData{
		ID:               fmt.Sprintf("%d", a.PublicID),
		RecipientID:      fmt.Sprintf("%d", recipientPublicID),
		PhoneNumber:      a.PhoneNumber,
		MessageSent:      a.MessageSent,
		ResponseReceived: a.ResponseReceived,
		PassCheck:        a.PassCheck,
		Status:           status,
	}
}
