package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordResetTTL = time.Hour

var (
	ErrEmailAlreadyExists = apperror.Conflict("email already exists")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated, "invalid email or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthenticated, "invalid or expired token")
	ErrTokenRevoked       = apperror.New(apperror.KindUnauthenticated, "token has been revoked")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrInvalidResetToken  = apperror.Validation("invalid or expired password reset token")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uint, accessTokenID string, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
	IsTokenValid(ctx context.Context, userID uint, tokenID string, tokenType jwt.TokenType) (bool, error)
	RevokeAllUserTokens(ctx context.Context, userID uint) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	EnsureAdmin(ctx context.Context, admin config.AdminConfig) error
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	mailService        service.MailService
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
	frontendURL        string
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	mailService service.MailService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	frontendURL string,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		mailService:        mailService,
		jwtService:         jwtService,
		redisClient:        redisClient,
		frontendURL:        strings.TrimRight(frontendURL, "/"),
	}
}

// Register creates the user together with the profile of its role.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := entity.Role(req.Role)
	if role != entity.RolePatient && role != entity.RoleDoctor {
		return nil, apperror.Validation("role must be Patient or Doctor")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	email := normalizeEmail(req.Email)
	existing, err := u.userRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	switch role {
	case entity.RoleDoctor:
		specialty := strings.TrimSpace(req.Specialty)
		if specialty == "" {
			specialty = entity.DefaultSpecialty
		}
		if err := u.doctorProfileRepo.Create(tx, &entity.DoctorProfile{UserID: user.ID, Specialty: specialty}); err != nil {
			u.log.Warnf("Failed to create doctor profile: %+v", err)
			return nil, err
		}
	case entity.RolePatient:
		if err := u.patientProfileRepo.Create(ctx, tx, &entity.PatientProfile{UserID: user.ID}); err != nil {
			u.log.Warnf("Failed to create patient profile: %+v", err)
			return nil, err
		}
	}

	res := converter.UserToResponse(user)
	actor := entity.Caller{UserID: user.ID, Role: user.Role}
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionUserRegister, "user", fmt.Sprint(user.ID), res); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the access token of the current session and, when given,
// the refresh token issued with it.
func (u *authUsecase) Logout(ctx context.Context, userID uint, accessTokenID string, refreshToken string) error {
	keys := []string{jwt.AccessTokenKey(userID, accessTokenID)}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			keys = append(keys, jwt.RefreshTokenKey(userID, claims.TokenID))
		}
	}

	if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
		u.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Deleting the key both checks and consumes it, so a refresh token
	// can be used once.
	refreshKey := jwt.RefreshTokenKey(claims.UserID, claims.TokenID)
	deleted, err := u.redisClient.Del(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}
	if deleted == 0 {
		return nil, ErrTokenRevoked
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) IsTokenValid(ctx context.Context, userID uint, tokenID string, tokenType jwt.TokenType) (bool, error) {
	key := jwt.AccessTokenKey(userID, tokenID)
	if tokenType == jwt.RefreshToken {
		key = jwt.RefreshTokenKey(userID, tokenID)
	}

	exists, err := u.redisClient.Exists(ctx, key).Result()
	if err != nil {
		u.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}

	return exists > 0, nil
}

// RevokeAllUserTokens revokes all tokens for a user (useful when password changed or account compromised)
func (u *authUsecase) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	for _, pattern := range []string{
		jwt.AccessTokenKey(userID, "*"),
		jwt.RefreshTokenKey(userID, "*"),
	} {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			u.log.Warnf("Failed to get token keys: %+v", err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			u.log.Warnf("Failed to delete tokens: %+v", err)
			return err
		}
	}

	return nil
}

// ForgotPassword stores a one hour reset token and mails a link to it. An
// unknown email is not reported to the caller.
func (u *authUsecase) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil {
		u.log.Debugf("Password reset requested for unknown email %s", req.Email)
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		u.log.Warnf("Failed to generate reset token: %+v", err)
		return err
	}
	expiry := now().Add(passwordResetTTL)
	user.PasswordResetToken = &token
	user.PasswordResetExpiry = &expiry

	if err := u.userRepo.Update(db, user); err != nil {
		u.log.Warnf("Failed to store reset token: %+v", err)
		return err
	}

	link := u.frontendURL + "/reset-password?token=" + token
	if err := u.mailService.SendPasswordReset(ctx, user.Email, user.FullName, link); err != nil {
		// The token stays valid; the user can ask again.
		u.log.Warnf("Failed to send password reset email: %+v", err)
	}

	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperror.Validation("passwords do not match")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByResetToken(tx, req.Token)
	if err != nil {
		u.log.Warnf("Failed to find user by reset token: %+v", err)
		return err
	}
	if user == nil || !user.ResetTokenValid(req.Token, now()) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	user.PasswordHash = string(hashedPassword)
	user.PasswordResetToken = nil
	user.PasswordResetExpiry = nil

	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	actor := entity.Caller{UserID: user.ID, Role: user.Role}
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionPasswordReset, "user", fmt.Sprint(user.ID), nil, nil); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	// Sessions opened with the old password end here.
	if err := u.RevokeAllUserTokens(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens after password reset: %+v", err)
	}

	return nil
}

// EnsureAdmin creates the configured administrator if no user holds its
// email yet.
func (u *authUsecase) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if admin.Email == "" {
		return nil
	}
	if admin.Password == "" {
		return apperror.Validation("admin password is required to seed %s", admin.Email)
	}

	db := u.db.WithContext(ctx)
	email := normalizeEmail(admin.Email)

	existing, err := u.userRepo.FindByEmail(db, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &entity.User{
		FullName:     admin.FullName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleAdmin,
	}
	if err := u.userRepo.Create(db, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil
		}
		return err
	}

	u.log.Infof("Seeded administrator %s", email)
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	pipe := u.redisClient.TxPipeline()
	pipe.Set(ctx, jwt.AccessTokenKey(user.ID, accessTokenID), "valid", u.jwtService.GetAccessExpiry())
	pipe.Set(ctx, jwt.RefreshTokenKey(user.ID, refreshTokenID), "valid", u.jwtService.GetRefreshExpiry())
	if _, err := pipe.Exec(ctx); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		User:         converter.UserToResponse(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
