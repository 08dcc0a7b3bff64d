package service

import (
	"context"
	"errors"
	"sync"
	"time"

	accountserrors "ginhawa/internal/accounts/errors"
	"ginhawa/internal/accounts/repository"
	"ginhawa/internal/accounts/validator"
	"ginhawa/pkg/auth"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/model"
	"ginhawa/pkg/sanitizer"
	"ginhawa/pkg/validation"
)

type AccountService interface {
	Register(ctx context.Context, reg *model.Registration) (*model.Account, error)
	CreateStaff(ctx context.Context, reg *model.StaffRegistration) (*model.Account, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context) (*model.Account, error)
	ListStaff(ctx context.Context, department string, limit int, offset int64) ([]*model.Account, int64, error)
}

type accountService struct {
	repo      repository.AccountRepository
	validator *validator.AccountValidator
	issuer    *auth.TokenIssuer
	cfg       *config.Config

	// verify compares a password with a hash. Unknown emails are compared
	// against dummyHash so both rejections cost one bcrypt comparison.
	verify        func(hash, plain string) bool
	dummyHashOnce sync.Once
	dummyHash     string
}

// NewAccountService builds the service. A nil issuer means tokens are not
// issued and Login only checks credentials.
func NewAccountService(repo repository.AccountRepository, validator *validator.AccountValidator, issuer *auth.TokenIssuer, cfg *config.Config) AccountService {
	return &accountService{
		repo:      repo,
		validator: validator,
		issuer:    issuer,
		cfg:       cfg,
		verify:    auth.VerifyPassword,
	}
}

func (s *accountService) Register(ctx context.Context, reg *model.Registration) (*model.Account, error) {
	reg.Email = sanitizer.NormalizeEmail(reg.Email)
	reg.Name = sanitizer.NormalizeName(reg.Name)

	if err := s.validator.ValidateRegistration(reg); err != nil {
		return nil, validationError(err)
	}

	phone := ""
	if reg.Phone != "" {
		phone = sanitizer.NormalizePhone(reg.Phone)
		if phone == "" {
			return nil, apperrors.Validation("Account validation failed", map[string]any{
				"phone": "phone must be a valid phone number",
			})
		}
	}

	account := &model.Account{
		Kind:  model.AccountCustomer,
		Email: reg.Email,
		Name:  reg.Name,
		Phone: phone,
	}
	if err := s.create(ctx, account, reg.Password); err != nil {
		return nil, err
	}
	s.cfg.Log.Info("Customer registered", "id", account.ID, "email", account.Email)
	return account, nil
}

func (s *accountService) CreateStaff(ctx context.Context, reg *model.StaffRegistration) (*model.Account, error) {
	reg.Email = sanitizer.NormalizeEmail(reg.Email)
	reg.Name = sanitizer.NormalizeName(reg.Name)
	reg.Department = sanitizer.CanonicalizeValue(reg.Department, model.Departments)

	if err := s.validator.ValidateStaff(reg); err != nil {
		return nil, validationError(err)
	}

	account := &model.Account{
		Kind:       model.AccountStaff,
		Email:      reg.Email,
		Name:       reg.Name,
		Department: reg.Department,
	}
	if err := s.create(ctx, account, reg.Password); err != nil {
		return nil, err
	}
	s.cfg.Log.Info("Staff account created", "id", account.ID, "email", account.Email, "department", account.Department)
	return account, nil
}

func (s *accountService) create(ctx context.Context, account *model.Account, password string) error {
	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal("Failed to secure password", err)
	}
	account.PasswordHash = hash

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, accountserrors.ErrEmailTaken) {
			return apperrors.Conflict("An account with this email already exists")
		}
		s.cfg.Log.Error("Failed to create account", "kind", account.Kind, "error", err)
		return apperrors.Internal("Failed to create account", err)
	}
	account.PasswordHash = ""
	return nil
}

func (s *accountService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, validationError(err)
	}

	account, err := s.repo.FindByEmail(ctx, req.Kind, req.Email)
	if err != nil && !errors.Is(err, accountserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to load account", "kind", req.Kind, "error", err)
		return nil, apperrors.Internal("Failed to sign in", err)
	}
	// Unknown email and wrong password get the same answer and the same work.
	hash := s.unknownAccountHash()
	if account != nil {
		hash = account.PasswordHash
	}
	if !s.verify(hash, req.Password) || account == nil {
		s.cfg.Log.Warn("Login rejected", "kind", req.Kind, "email", req.Email)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	account.PasswordHash = ""

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.repo.TouchLogin(ctx, account.Kind, account.ID, now); err != nil {
		s.cfg.Log.Warn("Failed to record login time", "id", account.ID, "error", err)
	} else {
		account.LastLoginAt = &now
	}

	response := &model.LoginResponse{Account: account}
	if s.issuer == nil {
		s.cfg.Log.Warn("Login without token, JWT_SECRET not set", "email", account.Email)
		return response, nil
	}

	token, exp, err := s.issuer.Issue(account.Email, string(account.Kind), account.Department, account.Name)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}
	response.Token = token
	response.ExpiresAt = exp

	s.cfg.Log.Info("Login succeeded", "kind", account.Kind, "email", account.Email, "department", account.Department)
	return response, nil
}

func (s *accountService) unknownAccountHash() string {
	s.dummyHashOnce.Do(func() {
		hash, err := auth.HashPassword("ginhawa-unknown-account", s.cfg.BcryptCost)
		if err != nil {
			s.cfg.Log.Warn("Failed to prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Me loads the account behind the request's token.
func (s *accountService) Me(ctx context.Context) (*model.Account, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	account, err := s.repo.FindByEmail(ctx, model.AccountKind(claims.Kind), claims.Subject)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Account")
		}
		s.cfg.Log.Error("Failed to load account", "email", claims.Subject, "error", err)
		return nil, apperrors.Internal("Failed to load account", err)
	}
	account.PasswordHash = ""
	return account, nil
}

func (s *accountService) ListStaff(ctx context.Context, department string, limit int, offset int64) ([]*model.Account, int64, error) {
	if department != "" {
		department = sanitizer.CanonicalizeValue(department, model.Departments)
		if !model.Contains(model.Departments, department) {
			return nil, 0, apperrors.InvalidInput("Unknown department " + department)
		}
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		accounts []*model.Account
		total    int64
		countErr error
		findErr  error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountStaff(ctx, department)
	}()
	go func() {
		defer wg.Done()
		accounts, findErr = s.repo.ListStaff(ctx, department, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(countErr, findErr); err != nil {
		s.cfg.Log.Error("Failed to list staff", "department", department, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve staff", err)
	}
	for _, a := range accounts {
		a.PasswordHash = ""
	}
	return accounts, total, nil
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Account validation failed", verrs.Details())
	}
	return apperrors.Validation("Account validation failed", map[string]any{"error": err.Error()})
}
