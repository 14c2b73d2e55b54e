// internal/service/customer_service.go
package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/logger"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	// AddressRepo is optional. When set, DeleteCustomer announces each cascaded address.
	AddressRepo  repository.AddressRepositoryInterface
	Events       *EventPublisher
	DefaultLimit int
	MaxLimit     int
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	in, err := validation.Customer(in)
	if err != nil {
		return nil, err
	}

	c := &model.Customer{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, model.NewRecordEvent(model.EventCustomerCreated, c.ID, nil))
	return c, nil
}

// ListCustomers fetches one page of customers matching filter.Search
func (s *CustomerService) ListCustomers(ctx context.Context, filter model.CustomerFilter) (*model.CustomerPage, error) {
	defaultLimit, maxLimit := s.limits()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	// keeps (Page-1)*Limit inside int for the OFFSET
	if maxPage := math.MaxInt / filter.Limit; filter.Page > maxPage {
		filter.Page = maxPage
	}

	customers, total, err := s.CustomerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.CustomerPage{
		Customers:  customers,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *CustomerService) limits() (int, int) {
	defaultLimit, maxLimit := s.DefaultLimit, s.MaxLimit
	if defaultLimit < 1 {
		defaultLimit = defaultPageSize
	}
	if maxLimit < defaultLimit {
		maxLimit = maxPageSize
	}
	return defaultLimit, maxLimit
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	return s.CustomerRepo.GetByID(ctx, id)
}

// UpdateCustomer replaces all mutable fields of customer id
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	in, err := validation.Customer(in)
	if err != nil {
		return nil, err
	}

	c := &model.Customer{
		ID:          id,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.CustomerRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, model.NewRecordEvent(model.EventCustomerUpdated, id, nil))
	return c, nil
}

// DeleteCustomer removes the customer; the store cascades to its addresses
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	cascaded := s.addressesOf(ctx, id)

	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, a := range cascaded {
		addressID := a.ID
		s.Events.Publish(ctx, model.NewRecordEvent(model.EventAddressDeleted, id, &addressID))
	}
	s.Events.Publish(ctx, model.NewRecordEvent(model.EventCustomerDeleted, id, nil))
	return nil
}

// addressesOf snapshots the addresses a customer delete is about to cascade.
// A lookup failure only costs the per-address events.
func (s *CustomerService) addressesOf(ctx context.Context, customerID int) []model.Address {
	if s.AddressRepo == nil || s.Events == nil {
		return nil
	}
	addresses, err := s.AddressRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to list addresses before customer delete",
			zap.Int("customer_id", customerID),
			zap.Error(err),
		)
		return nil
	}
	return addresses
}
