package service

import (
	"context"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/validation"
)

// AddressService manages addresses. Every mutation is scoped to the owning customer id.
type AddressService struct {
	AddressRepo repository.AddressRepositoryInterface
	Events      *EventPublisher
}

func (s *AddressService) CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	in, err := validation.Address(in)
	if err != nil {
		return nil, err
	}

	a := newAddress(customerID, 0, in)
	if err := s.AddressRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, model.NewRecordEvent(model.EventAddressCreated, customerID, &a.ID))
	return a, nil
}

func (s *AddressService) ListAddresses(ctx context.Context, customerID int) ([]model.Address, error) {
	return s.AddressRepo.ListByCustomer(ctx, customerID)
}

func (s *AddressService) UpdateAddress(ctx context.Context, customerID, addressID int, in model.AddressInput) (*model.Address, error) {
	in, err := validation.Address(in)
	if err != nil {
		return nil, err
	}

	a := newAddress(customerID, addressID, in)
	if err := s.AddressRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, model.NewRecordEvent(model.EventAddressUpdated, customerID, &addressID))
	return a, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, customerID, addressID int) error {
	if err := s.AddressRepo.Delete(ctx, customerID, addressID); err != nil {
		return err
	}

	s.Events.Publish(ctx, model.NewRecordEvent(model.EventAddressDeleted, customerID, &addressID))
	return nil
}

func newAddress(customerID, addressID int, in model.AddressInput) *model.Address {
	return &model.Address{
		ID:             addressID,
		CustomerID:     customerID,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
}
