package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/fleet-rental-console/internal/models"
	"github.com/ukydev/fleet-rental-console/internal/services"
)

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, req models.CreateBookingRequest) (*services.CreatedBooking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreatedBooking), args.Error(1)
}

func (m *MockBookingService) ListMine(ctx context.Context) ([]models.ApiBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ApiBooking), args.Error(1)
}

func (m *MockBookingService) ConfirmPayment(ctx context.Context, id string) (*models.ApiBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApiBooking), args.Error(1)
}

// MockDriverService is a mock implementation of DriverService
type MockDriverService struct {
	mock.Mock
}

func (m *MockDriverService) ListPublic(ctx context.Context) ([]models.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type fakeSession struct {
	user models.User
	err  error
}

func (f fakeSession) CurrentUser() (models.User, error) {
	return f.user, f.err
}
