package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mapper"
	"github.com/marketgrid/orders-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactService manages the user's phone numbers and delivery
// addresses. All operations are scoped to the owner; a contact that
// exists but belongs to someone else behaves as missing.
type ContactService struct {
	contactRepo *repository.ContactRepository
	logger      *zap.Logger
}

func NewContactService(contactRepo *repository.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// checkContactFields enforces the per-type required fields: phone
// contacts need a number, address contacts need city, street and house.
func checkContactFields(contactType domain.ContactType, phone, city, street, house string) error {
	switch contactType {
	case domain.ContactTypePhone:
		if phone == "" {
			return fmt.Errorf("%w: phone is required for phone contacts", ErrInvalidInput)
		}
	case domain.ContactTypeAddress:
		if city == "" || street == "" || house == "" {
			return fmt.Errorf("%w: city, street and house are required for address contacts", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown contact type %q", ErrInvalidInput, contactType)
	}
	return nil
}

func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	if err := checkContactFields(req.Type, req.Phone, req.City, req.Street, req.House); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		UserID:     userID,
		Type:       req.Type,
		Phone:      req.Phone,
		City:       req.City,
		Street:     req.Street,
		House:      req.House,
		Apartment:  req.Apartment,
		PostalCode: req.PostalCode,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) List(ctx context.Context, userID uuid.UUID) ([]domain.ContactDTO, error) {
	contacts, err := s.contactRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i, contact := range contacts {
		dtos[i] = mapper.ToContactDTO(&contact)
	}
	return dtos, nil
}

func (s *ContactService) Update(ctx context.Context, userID, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	if err := checkContactFields(req.Type, req.Phone, req.City, req.Street, req.House); err != nil {
		return nil, err
	}

	contact, err := s.contactRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	contact.Type = req.Type
	contact.Phone = req.Phone
	contact.City = req.City
	contact.Street = req.Street
	contact.House = req.House
	contact.Apartment = req.Apartment
	contact.PostalCode = req.PostalCode

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

// Delete removes the contact. Orders that referenced it keep existing
// with a nulled contact reference.
func (s *ContactService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.contactRepo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !deleted {
		return ErrContactNotFound
	}
	return nil
}
