// Package seed fills the store with fake customers and addresses for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/validation"
)

// maxPhoneAttempts bounds retries when a generated phone number is already taken
const maxPhoneAttempts = 5

type Seeder struct {
	Customers    repository.CustomerRepositoryInterface
	Addresses    repository.AddressRepositoryInterface
	Faker        *gofakeit.Faker
	Logger       *zap.Logger
	MaxAddresses int
}

// Result counts the rows written by Run
type Result struct {
	Customers int
	Addresses int
}

func New(customers repository.CustomerRepositoryInterface, addresses repository.AddressRepositoryInterface, logger *zap.Logger) *Seeder {
	return &Seeder{
		Customers:    customers,
		Addresses:    addresses,
		Faker:        gofakeit.New(0), // Random seed
		Logger:       logger,
		MaxAddresses: 3,
	}
}

// Run inserts count customers, each with between zero and MaxAddresses addresses
func (s *Seeder) Run(ctx context.Context, count int) (Result, error) {
	var res Result
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		c, err := s.createCustomer(ctx)
		if err != nil {
			return res, err
		}
		res.Customers++

		n := s.Faker.IntRange(0, s.MaxAddresses)
		for j := 0; j < n; j++ {
			if err := s.createAddress(ctx, c.ID); err != nil {
				return res, err
			}
			res.Addresses++
		}
	}

	s.Logger.Info("Seeding completed",
		zap.Int("customers", res.Customers),
		zap.Int("addresses", res.Addresses),
	)
	return res, nil
}

func (s *Seeder) createCustomer(ctx context.Context) (*model.Customer, error) {
	for attempt := 1; ; attempt++ {
		in, err := validation.Customer(model.CustomerInput{
			FirstName:   s.Faker.FirstName(),
			LastName:    s.Faker.LastName(),
			PhoneNumber: s.Faker.Numerify("##########"),
		})
		if err != nil {
			return nil, fmt.Errorf("generated invalid customer: %w", err)
		}

		c := &model.Customer{FirstName: in.FirstName, LastName: in.LastName, PhoneNumber: in.PhoneNumber}
		err = s.Customers.Create(ctx, c)
		if err == nil {
			return c, nil
		}
		if !appErrors.IsConflict(err) || attempt == maxPhoneAttempts {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		s.Logger.Debug("Phone number taken, regenerating", zap.String("phone_number", in.PhoneNumber))
	}
}

func (s *Seeder) createAddress(ctx context.Context, customerID int) error {
	in, err := validation.Address(model.AddressInput{
		AddressDetails: s.Faker.Street(),
		City:           s.Faker.City(),
		State:          s.Faker.StateAbr(),
		PinCode:        s.Faker.Numerify("######"),
	})
	if err != nil {
		return fmt.Errorf("generated invalid address: %w", err)
	}

	a := &model.Address{
		CustomerID:     customerID,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
	if err := s.Addresses.Create(ctx, a); err != nil {
		return fmt.Errorf("create address for customer %d: %w", customerID, err)
	}
	return nil
}
