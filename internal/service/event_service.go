package service

import (
	"context"

	"event-ticket-system/internal/cache"
	"event-ticket-system/internal/model"
	"event-ticket-system/internal/repository"

	"github.com/google/uuid"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	// OpenForSale 活動開賣：預熱該活動底下所有票種的 Redis 庫存
	OpenForSale(ctx context.Context, eventID uuid.UUID) error
}

type EventServiceImpl struct {
	repo         repository.EventRepository
	tickets      repository.TicketTypeRepository
	availability cache.TicketAvailabilityCache
}

func NewEventService(repo repository.EventRepository, tickets repository.TicketTypeRepository, availability cache.TicketAvailabilityCache) EventService {
	return &EventServiceImpl{repo: repo, tickets: tickets, availability: availability}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) OpenForSale(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	ticketTypes, err := s.tickets.ListByEventID(ctx, event.ID)
	if err != nil {
		return err
	}
	for _, tt := range ticketTypes {
		if err := s.availability.WarmUp(ctx, tt.ID, tt.Remaining(), tt.Price); err != nil {
			return err
		}
	}
	return nil
}
