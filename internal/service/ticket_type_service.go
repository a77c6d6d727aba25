package service

import (
	"context"
	"errors"

	"event-ticket-system/internal/cache"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/repository"
	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/google/uuid"
)

type TicketTypeService interface {
	List(ctx context.Context) ([]*model.TicketType, error)
	GetByTicketTypeID(ctx context.Context, ticketTypeID uuid.UUID) (*model.TicketType, error)
	Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error)
	// GetRemaining 先讀快取，未預熱時 fallback 到資料庫
	GetRemaining(ctx context.Context, ticketTypeID uuid.UUID) (int, error)
}

type TicketTypeServiceImpl struct {
	repo         repository.TicketTypeRepository
	availability cache.TicketAvailabilityCache
}

func NewTicketTypeService(repo repository.TicketTypeRepository, availability cache.TicketAvailabilityCache) TicketTypeService {
	return &TicketTypeServiceImpl{repo: repo, availability: availability}
}

func (s *TicketTypeServiceImpl) List(ctx context.Context) ([]*model.TicketType, error) {
	return s.repo.List(ctx)
}

func (s *TicketTypeServiceImpl) GetByTicketTypeID(ctx context.Context, ticketTypeID uuid.UUID) (*model.TicketType, error) {
	return s.repo.FindByTicketTypeID(ctx, ticketTypeID)
}

func (s *TicketTypeServiceImpl) Create(ctx context.Context, ticketType *model.TicketType) (*model.TicketType, error) {
	ticketType.TicketTypeID = uuid.New()
	return s.repo.Create(ctx, ticketType)
}

func (s *TicketTypeServiceImpl) GetRemaining(ctx context.Context, ticketTypeID uuid.UUID) (int, error) {
	tt, err := s.repo.FindByTicketTypeID(ctx, ticketTypeID)
	if err != nil {
		return 0, err
	}

	remaining, err := s.availability.GetRemaining(ctx, tt.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketTypeNotFound) {
			// 尚未預熱，回資料庫的計數
			return tt.Remaining(), nil
		}
		return 0, err
	}

	return remaining, nil
}
