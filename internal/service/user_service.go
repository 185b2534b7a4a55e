package service

import (
	"context"
	"errors"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
	"github.com/iliyamo/qna-service/internal/utils"
)

// UserService covers registration, credential verification and
// account lifecycle.  The role is assigned exactly once at
// registration from the configured admin-email allowlist and is never
// writable afterwards.
type UserService struct {
	Users      UserStore
	AdminEmail string // the one email that maps to ADMIN
	BcryptCost int
}

func NewUserService(users UserStore, adminEmail string, bcryptCost int) *UserService {
	return &UserService{Users: users, AdminEmail: adminEmail, BcryptCost: bcryptCost}
}

// Register creates a new ACTIVE account.  Duplicate emails fail with
// repository.ErrEmailExists.
func (s *UserService) Register(ctx context.Context, email, name, password string) (model.User, error) {
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Email:        model.NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		Role:         model.RolesFor(email, s.AdminEmail)[0],
		Status:       model.UserActive,
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate verifies login credentials and returns the account.
// Unknown email, wrong password and quit accounts all collapse into
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if u.Status == model.UserQuit || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// LookupActive returns the ACTIVE account behind a verified token
// subject.  The refresh exchange uses it to reload the live role set;
// quit and unknown accounts read as ErrInvalidCredentials so a stale
// refresh token reveals nothing.
func (s *UserService) LookupActive(ctx context.Context, email string) (model.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if u.Status == model.UserQuit {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns a user visible to the caller: the account itself or any
// admin.
func (s *UserService) Get(ctx context.Context, p auth.Principal, id uint64) (model.User, error) {
	if err := auth.RequireOwnerOrRole(p, id, model.RoleAdmin); err != nil {
		return model.User{}, err
	}
	return s.Users.GetByID(ctx, id)
}

// List pages through all accounts.  Admin only.
func (s *UserService) List(ctx context.Context, p auth.Principal, page, size int) ([]model.User, error) {
	if err := auth.RequireRole(p, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Users.List(ctx, clampPage(page), clampSize(size))
}

// UserPatch carries the optional profile fields of an update; nil
// fields are left unchanged.
type UserPatch struct {
	Name     *string
	Password *string
}

// Update patches the caller's own profile.  Nobody, admins included,
// edits someone else's account.
func (s *UserService) Update(ctx context.Context, p auth.Principal, id uint64, patch UserPatch) (model.User, error) {
	if err := auth.RequireSelf(p, id); err != nil {
		return model.User{}, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if u.Status == model.UserQuit {
		return model.User{}, repository.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password, s.BcryptCost)
		if err != nil {
			return model.User{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Quit terminally deactivates an account, cascading DEACTIVATED onto
// every question it owns in the same unit of work.  Allowed for the
// account itself or an admin.
func (s *UserService) Quit(ctx context.Context, p auth.Principal, id uint64) error {
	if err := auth.RequireOwnerOrRole(p, id, model.RoleAdmin); err != nil {
		return err
	}
	return s.Users.Quit(ctx, id)
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampSize(size int) int {
	if size < 1 {
		return 10
	}
	if size > 100 {
		return 100
	}
	return size
}
