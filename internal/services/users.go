package services

import (
	"context"
	"strings"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/auth"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/models"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/store"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/types"
	"github.com/rs/zerolog/log"
)

// RegisterInput is the self-service signup payload
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=80"`
	Email     string `json:"email" validate:"required,email,max=120"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
}

// CreateUserInput is the admin variant of RegisterInput that may set a role
type CreateUserInput struct {
	RegisterInput
	Role models.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserInput carries the fields an admin may change. Absent fields are left alone.
type UpdateUserInput struct {
	FirstName types.Optional[string]      `json:"first_name"`
	LastName  types.Optional[string]      `json:"last_name"`
	Email     types.Optional[string]      `json:"email"`
	Role      types.Optional[models.Role] `json:"role"`
	IsActive  types.Optional[bool]        `json:"is_active"`
}

// UserService manages accounts and credentials
type UserService struct {
	store  *store.Store
	hasher auth.PasswordHasher
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

// Register creates a regular user account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleUser, nil)
}

// CreateByAdmin creates an account with an optional role and audits it
func (s *UserService) CreateByAdmin(ctx context.Context, admin *models.User, in CreateUserInput) (*models.User, error) {
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	return s.create(ctx, in.RegisterInput, role, admin)
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role models.Role, admin *models.User) (*models.User, error) {
	in.normalize()
	if err := types.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if err := auth.CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, types.UnexpectedError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		if admin != nil {
			return recordAudit(ctx, tx, admin, models.AuditCreate, "user", user.ID, models.JSON{}, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) checkAvailable(ctx context.Context, username, email string, excludeID uint) error {
	if username != "" {
		taken, err := s.store.Users.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return types.ConflictError("username", "Username already exists")
		}
	}
	if email != "" {
		taken, err := s.store.Users.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return types.ConflictError("email", "Email already exists")
		}
	}
	return nil
}

// Authenticate checks a username or email against a password.
// Unknown users and wrong passwords get the same message.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, types.ValidationError("username", "username is required")
	}
	if password == "" {
		return nil, types.ValidationError("password", "password is required")
	}

	user, err := s.store.Users.FindByLogin(ctx, login)
	if err != nil {
		if types.IsKind(err, types.KindNotFound) {
			return nil, types.AuthenticationError("Invalid credentials")
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, types.AuthenticationError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, types.AuthenticationError("Account is deactivated")
	}
	return user, nil
}

// Get loads a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Users.Get(ctx, id)
}

// List pages through users for the admin console
func (s *UserService) List(ctx context.Context, f store.UserFilter, page store.PageRequest) (store.PageResult[models.User], error) {
	if f.Role != "" && !f.Role.Valid() {
		return store.PageResult[models.User]{}, types.ValidationError("role", "role must be one of: user, admin")
	}
	return s.store.Users.List(ctx, f, page)
}

// UpdateByAdmin applies an admin's changes to a user
func (s *UserService) UpdateByAdmin(ctx context.Context, admin *models.User, id uint, in UpdateUserInput) (*models.User, error) {
	if in.Email.Set {
		email := strings.ToLower(strings.TrimSpace(in.Email.Get()))
		if err := types.Validator().Var(email, "required,email,max=120"); err != nil {
			return nil, types.ValidationError("email", "email must be a valid email address")
		}
		in.Email = types.Some(email)
	}
	if in.Role.Set && !in.Role.Get().Valid() {
		return nil, types.ValidationError("role", "role must be one of: user, admin")
	}
	if in.IsActive.Set && in.IsActive.Value == nil {
		return nil, types.ValidationError("is_active", "is_active must be a boolean")
	}

	var user *models.User
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if user, err = tx.Users.Get(ctx, id); err != nil {
			return err
		}
		before := capture(user)

		if in.Email.Set && in.Email.Get() != user.Email {
			taken, err := tx.Users.EmailTaken(ctx, in.Email.Get(), user.ID)
			if err != nil {
				return err
			}
			if taken {
				return types.ConflictError("email", "Email already exists")
			}
			user.Email = in.Email.Get()
		}
		if in.FirstName.Set {
			user.FirstName = strings.TrimSpace(in.FirstName.Get())
		}
		if in.LastName.Set {
			user.LastName = strings.TrimSpace(in.LastName.Get())
		}
		if in.Role.Set {
			user.Role = in.Role.Get()
		}
		if in.IsActive.Set {
			user.IsActive = in.IsActive.Get()
		}
		if user.ID == admin.ID && (!user.IsActive || user.Role != models.RoleAdmin) {
			return types.ValidationError("role", "Admins cannot demote or deactivate themselves")
		}

		if err := tx.Users.Save(ctx, user); err != nil {
			return err
		}
		return recordAudit(ctx, tx, admin, models.AuditUpdate, "user", user.ID, before, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin when no admin exists yet.
// It is a no-op when the credentials are not configured.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}
	count, err := s.store.Users.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	in := RegisterInput{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: "System",
		LastName:  "Administrator",
	}
	user, err := s.create(ctx, in, models.RoleAdmin, nil)
	if err != nil {
		return err
	}
	log.Info().Str("username", user.Username).Msg("bootstrap admin created")
	return nil
}
