package usecase

import (
	"context"
	"fmt"
	"strings"

	"medical-appointment-booking/internal/access"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidEmail = apperror.Validation("email is not a valid address")

type UserUsecase interface {
	ListUsers(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.UserResponse], error)
	GetUser(ctx context.Context, caller entity.Caller, id uint) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, caller entity.Caller, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	auditService service.AuditService
	validator    *validator.CustomValidator
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	validator *validator.CustomValidator,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		auditService: auditService,
		validator:    validator,
	}
}

func (u *userUsecase) ListUsers(ctx context.Context, caller entity.Caller, q dto.PageQuery) (*dto.Paginated[dto.UserResponse], error) {
	if err := access.RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	page := toPage(q)
	users, total, err := u.userRepo.FindAll(u.db.WithContext(ctx), page)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return paginated(converter.UsersToResponses(users), page, total), nil
}

func (u *userUsecase) GetUser(ctx context.Context, caller entity.Caller, id uint) (*dto.UserResponse, error) {
	if err := access.CanAccessUser(caller, id); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// UpdateUser changes the name or email of an account. Emails stay unique
// regardless of case.
func (u *userUsecase) UpdateUser(ctx context.Context, caller entity.Caller, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := access.CanAccessUser(caller, id); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	old := converter.UserToResponse(user)

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, apperror.Validation("full_name must not be empty")
		}
		user.FullName = name
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := u.validator.Var(email, "email"); err != nil {
			return nil, ErrInvalidEmail
		}
		taken, err := u.userRepo.EmailTakenByOther(tx, email, user.ID)
		if err != nil {
			u.log.Warnf("Failed to check email uniqueness: %+v", err)
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	res := converter.UserToResponse(user)
	if err := u.auditService.LogUpdate(ctx, tx, caller, entity.AuditActionUserUpdate, "user", fmt.Sprint(user.ID), old, res); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return res, nil
}
