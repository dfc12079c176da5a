package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"room-rental-backend/internal/models"
	"room-rental-backend/internal/repository"
	"room-rental-backend/pkg/utils"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	roomRepo  *repository.RoomRepository
	auditRepo AuditLogger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	roomRepo *repository.RoomRepository,
	auditRepo AuditLogger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		roomRepo:  roomRepo,
		auditRepo: auditRepo,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UID          string `json:"uid"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TenantRoomID string `json:"tenant_room_id,omitempty"`
}

// Login authenticates by email and password. The role comes from the user
// profile record; a missing profile defaults to tenant. For tenants, the
// room binding is read from the store at sign-in and embedded in the access
// token so every subsequent call carries the full actor context.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, errors.New("invalid credentials")
	}

	role := user.Role
	if role == "" {
		role = models.RoleTenant
	}

	tenantRoomID := s.lookupTenantRoom(ctx, user.UID, role)

	accessToken, err := utils.GenerateAccessToken(user.UID, role, tenantRoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	tokenHash := utils.HashRefreshToken(refreshToken)
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}

	if err := s.userRepo.CreateRefreshToken(refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(user.UID, "user_login", fmt.Sprintf("User %s logged in", email))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			UID:          user.UID,
			Name:         user.Name,
			Email:        user.Email,
			Role:         role,
			TenantRoomID: tenantRoomID,
		},
	}, nil
}

// lookupTenantRoom reads the tenant-room binding for tenant actors.
// Landlords never carry a binding; a read failure degrades to "unbound".
func (s *AuthService) lookupTenantRoom(ctx context.Context, uid, role string) string {
	if role != models.RoleTenant {
		return ""
	}
	binding, ok, err := s.roomRepo.GetTenantBinding(ctx, uid)
	if err != nil {
		log.Printf("Tenant binding lookup failed for %s: %v", uid, err)
		return ""
	}
	if !ok {
		return ""
	}
	return binding.RoomID
}

// RefreshAccessToken mints a new access token from a refresh token. The
// tenant binding is re-read here, so a fresh room link takes effect on the
// next refresh without re-authentication.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	tokenHash := utils.HashRefreshToken(refreshToken)

	token, err := s.userRepo.FindRefreshTokenByHash(tokenHash)
	if err != nil {
		return "", errors.New("invalid or revoked refresh token")
	}

	if time.Now().After(token.ExpiresAt) {
		return "", errors.New("refresh token expired")
	}

	role := token.User.Role
	if role == "" {
		role = models.RoleTenant
	}
	tenantRoomID := s.lookupTenantRoom(ctx, token.User.UID, role)

	accessToken, err := utils.GenerateAccessToken(token.User.UID, role, tenantRoomID)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(refreshToken string) error {
	tokenHash := utils.HashRefreshToken(refreshToken)

	if err := s.userRepo.RevokeRefreshTokenByHash(tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// Register creates a new user account. The role defaults to tenant when
// not specified; creating landlord accounts is an explicit choice.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone, role string) (*LoginResponse, error) {
	existingUser, err := s.userRepo.FindUserByEmail(email)
	if err == nil && existingUser != nil {
		return nil, errors.New("email already registered")
	}

	if role == "" {
		role = models.RoleTenant
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UID:          uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Phone:        phone,
		Status:       "active",
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := utils.GenerateAccessToken(user.UID, user.Role, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	tokenHash := utils.HashRefreshToken(refreshToken)
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}

	if err := s.userRepo.CreateRefreshToken(refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(user.UID, "user_registration", fmt.Sprintf("User %s registered", email))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			UID:   user.UID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
