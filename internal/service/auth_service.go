package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"optitrack-data/internal/domain"
	"optitrack-data/internal/repository"
	"optitrack-data/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProfilePicture is the blob key assigned to new accounts until they
// upload their own picture.
const DefaultProfilePicture = "profilePictures/default.jpg"

const sessionTTL = 24 * time.Hour

// AuthService owns accounts and sessions for the mobile clients.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// UserFromToken resolves a session token to its user. Expired or unknown
	// tokens return ErrUnauthorized.
	UserFromToken(ctx context.Context, token string) (*domain.User, error)

	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error)

	// UploadProfilePicture stores the picture blob under the user's key and
	// points the profile at its URL.
	UploadProfilePicture(ctx context.Context, userID, filename string, data io.Reader) (*domain.User, error)
}

var (
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
)

type authService struct {
	usersRepo repository.UsersRepository
	kv        store.KV
	blobs     store.BlobStore
	logger    *zap.Logger
}

func NewAuthService(usersRepo repository.UsersRepository, kv store.KV, blobs store.BlobStore, logger *zap.Logger) AuthService {
	return &authService{
		usersRepo: usersRepo,
		kv:        kv,
		blobs:     blobs,
		logger:    logger,
	}
}

// SignupRequest mirrors the sign-up form.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Occupation      string `json:"occupation"`
}

// LoginRequest carries login credentials plus client metadata for the audit
// log.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse is returned from both login and signup.
type LoginResponse struct {
	AccessToken    string `json:"accessToken"`
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Occupation     string `json:"occupation"`
	ProfilePicture string `json:"profilePicture"`
	HomePath       string `json:"homePath"`
}

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("invalid email")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}
	occupation := domain.Occupation(strings.TrimSpace(req.Occupation))
	if !domain.ValidOccupation(occupation) {
		return nil, fmt.Errorf("invalid occupation: %s", req.Occupation)
	}

	if existing, err := s.usersRepo.GetByEmailHash(ctx, HashEmail(req.Email)); err == nil && existing != nil {
		return nil, fmt.Errorf("account already exists")
	} else if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}

	user := repository.AuthUser{
		User: domain.User{
			UserID:         uuid.NewString(),
			Email:          req.Email,
			FirstName:      strings.TrimSpace(req.FirstName),
			LastName:       strings.TrimSpace(req.LastName),
			Occupation:     occupation,
			ProfilePicture: s.blobs.URL(DefaultProfilePicture),
		},
		EmailHash:    HashEmail(req.Email),
		PasswordHash: HashPassword(req.Password),
	}

	if err := s.usersRepo.CreateUser(ctx, user); err != nil {
		s.logger.Error("Signup failed", zap.String("email_hash", user.EmailHash), zap.Error(err))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("User signed up",
		zap.String("user_id", user.UserID),
		zap.String("occupation", string(occupation)),
	)

	return s.issueSession(ctx, &user.User)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, ErrInvalidCredentials
	}

	user, err := s.usersRepo.GetByEmailHash(ctx, HashEmail(req.Email))
	if err == repository.ErrNotFound {
		s.logger.Warn("Login failed: unknown account",
			zap.String("ip_address", req.IPAddress),
		)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	if user.PasswordHash != HashPassword(req.Password) {
		s.logger.Warn("Login failed: bad password",
			zap.String("user_id", user.UserID),
			zap.String("ip_address", req.IPAddress),
		)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.UserID),
		zap.String("occupation", string(user.Occupation)),
	)

	return s.issueSession(ctx, &user.User)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.kv.Del(ctx, sessionKey(token))
}

func (s *authService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, err := s.kv.Get(ctx, sessionKey(token))
	if err == store.ErrMiss {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	user, err := s.usersRepo.GetByID(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *authService) issueSession(ctx context.Context, user *domain.User) (*LoginResponse, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, sessionKey(token), user.UserID, sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &LoginResponse{
		AccessToken:    token,
		UserID:         user.UserID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Occupation:     string(user.Occupation),
		ProfilePicture: user.ProfilePicture,
		HomePath:       HomePath(user.Occupation),
	}, nil
}

// UpdateProfileRequest carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Occupation string `json:"occupation"`
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(req.FirstName); v != "" {
		fields["first_name"] = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		fields["last_name"] = v
	}
	if v := strings.TrimSpace(req.Occupation); v != "" {
		if !domain.ValidOccupation(domain.Occupation(v)) {
			return nil, fmt.Errorf("invalid occupation: %s", v)
		}
		fields["occupation"] = v
	}
	if len(fields) == 0 {
		return s.usersRepo.GetByID(ctx, userID)
	}

	if err := s.usersRepo.UpdateProfile(ctx, userID, fields); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", zap.String("user_id", userID))
	return s.usersRepo.GetByID(ctx, userID)
}

func (s *authService) UploadProfilePicture(ctx context.Context, userID, filename string, data io.Reader) (*domain.User, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return nil, fmt.Errorf("unsupported picture type: %s", filename)
	}

	key := "profilePictures/" + userID + ext
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to store picture: %w", err)
	}

	fields := map[string]any{"profile_picture": s.blobs.URL(key)}
	if err := s.usersRepo.UpdateProfile(ctx, userID, fields); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to update profile picture: %w", err)
	}

	s.logger.Info("Profile picture uploaded",
		zap.String("user_id", userID),
		zap.String("key", key),
	)
	return s.usersRepo.GetByID(ctx, userID)
}

// HomePath selects the client's landing screen for a role.
func HomePath(o domain.Occupation) string {
	switch o {
	case domain.OccupationAdmin:
		return "/admin/home"
	case domain.OccupationEmployee:
		return "/employee/home"
	default:
		return "/driver/home"
	}
}

func sessionKey(token string) string {
	return "auth:token:" + token
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashEmail hashes the normalized (lowercased, trimmed) email address.
func HashEmail(email string) string {
	return sha256Hex(strings.TrimSpace(strings.ToLower(email)))
}

// HashPassword hashes the password only, independent of the account, so a
// password change never cascades into other columns.
func HashPassword(password string) string {
	return sha256Hex(password)
}
