package httpapi

import (
	"context"
	"io"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/service"
	"optitrack-data/internal/tireops"
)

// stubAuthService implements service.AuthService with overridable funcs; the
// zero value accepts every token as the test user.
type stubAuthService struct {
	signupFn        func(ctx context.Context, req service.SignupRequest) (*service.LoginResponse, error)
	loginFn         func(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	userFromTokenFn func(ctx context.Context, token string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID string, req service.UpdateProfileRequest) (*domain.User, error)
	uploadPictureFn func(ctx context.Context, userID, filename string, data io.Reader) (*domain.User, error)
	loggedOutTokens []string
}

var testUser = domain.User{
	UserID:     "u-1",
	Email:      "driver@example.com",
	FirstName:  "Sam",
	LastName:   "Lee",
	Occupation: domain.OccupationDriver,
}

func (s *stubAuthService) Signup(ctx context.Context, req service.SignupRequest) (*service.LoginResponse, error) {
	return s.signupFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	return s.loginFn(ctx, req)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.loggedOutTokens = append(s.loggedOutTokens, token)
	return nil
}

func (s *stubAuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	if s.userFromTokenFn != nil {
		return s.userFromTokenFn(ctx, token)
	}
	u := testUser
	return &u, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, req service.UpdateProfileRequest) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, req)
}

func (s *stubAuthService) UploadProfilePicture(ctx context.Context, userID, filename string, data io.Reader) (*domain.User, error) {
	return s.uploadPictureFn(ctx, userID, filename, data)
}

type stubReadingService struct {
	submitFn        func(ctx context.Context, r domain.Reading) error
	searchFn        func(ctx context.Context, fragment string) ([]service.ReadingStatus, error)
	historyFn       func(ctx context.Context, tireNo string) ([]service.ReadingStatus, error)
	vehicleStatusFn func(ctx context.Context, vehicleNo string) ([]service.ReadingStatus, error)
	betweenFn       func(ctx context.Context, from, to string) ([]service.ReadingStatus, error)
}

func (s *stubReadingService) SubmitReading(ctx context.Context, r domain.Reading) error {
	return s.submitFn(ctx, r)
}

func (s *stubReadingService) SearchTires(ctx context.Context, fragment string) ([]service.ReadingStatus, error) {
	return s.searchFn(ctx, fragment)
}

func (s *stubReadingService) TireHistory(ctx context.Context, tireNo string) ([]service.ReadingStatus, error) {
	return s.historyFn(ctx, tireNo)
}

func (s *stubReadingService) VehicleStatus(ctx context.Context, vehicleNo string) ([]service.ReadingStatus, error) {
	return s.vehicleStatusFn(ctx, vehicleNo)
}

func (s *stubReadingService) ReadingsBetween(ctx context.Context, from, to string) ([]service.ReadingStatus, error) {
	return s.betweenFn(ctx, from, to)
}

func (s *stubReadingService) Snapshot(ctx context.Context) ([]domain.Reading, error) {
	return nil, nil
}

func (s *stubReadingService) Thresholds() tireops.Thresholds {
	return tireops.Thresholds{
		PressureGoodMin: 45,
		PressureWarnMin: 42,
		TreadGoodMin:    10,
		TreadWarnMin:    5,
	}
}

type stubChecklistService struct {
	dueTodayFn     func(ctx context.Context) ([]service.ChecklistItem, error)
	confirmCheckFn func(ctx context.Context, tireNo string) (*service.ChecklistItem, error)
}

func (s *stubChecklistService) DueToday(ctx context.Context) ([]service.ChecklistItem, error) {
	return s.dueTodayFn(ctx)
}

func (s *stubChecklistService) ConfirmCheck(ctx context.Context, tireNo string) (*service.ChecklistItem, error) {
	return s.confirmCheckFn(ctx, tireNo)
}
