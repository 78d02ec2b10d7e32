package user

import (
	"context"
	"errors"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/auth"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrWWIDTaken          = errors.New("wwid already taken")
	ErrInvalidWWID        = errors.New("wwid must be 3-20 characters, lowercase letters and numbers only")
	ErrInvalidSPINFormat  = errors.New("s-pin must be exactly 4 digits")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSPIN        = errors.New("invalid s-pin")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUnknownField       = errors.New("unknown profile field")
)

var (
	wwidPattern = regexp.MustCompile(`^[a-z0-9]{3,20}$`)
	spinPattern = regexp.MustCompile(`^\d{4}$`)
)

// wwidSuffix is appended to every handle so WWIDs are recognisable
// payment addresses, e.g. "rahul@ww".
const wwidSuffix = "@ww"

// wwidChangeFee is charged when an existing account changes its handle.
var wwidChangeFee = decimal.NewFromInt(10)

type Service interface {
	StartRegistration(ctx context.Context, req RegisterRequest) (string, error)
	SetupWWID(ctx context.Context, token, handle string) (string, error)
	CompleteRegistration(ctx context.Context, token, spin string) (*User, error)
	Login(ctx context.Context, req LoginRequest) (string, *User, error)
	VerifyPin(ctx context.Context, userID, spin string) (string, *User, error)
	RecoverBySPIN(ctx context.Context, usernameOrPhone, spin string) (string, *User, error)
	RecoverByPassword(ctx context.Context, usernameOrPhone, password string) (string, *User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (string, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type service struct {
	repo      Repository
	regStore  *RegistrationStore
	jwtSecret string
}

func NewService(repo Repository, regStore *RegistrationStore, jwtSecret string) Service {
	return &service{
		repo:      repo,
		regStore:  regStore,
		jwtSecret: jwtSecret,
	}
}

func (s *service) StartRegistration(ctx context.Context, req RegisterRequest) (string, error) {
	exists, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUsernameTaken
	}

	exists, err = s.repo.PhoneExists(ctx, req.Phone)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrPhoneTaken
	}

	passwordHash, err := auth.HashSecret(req.Password)
	if err != nil {
		return "", err
	}

	return s.regStore.Start(ctx, RegistrationState{
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
	})
}

func (s *service) SetupWWID(ctx context.Context, token, handle string) (string, error) {
	state, err := s.regStore.Get(ctx, token)
	if err != nil {
		return "", err
	}

	if !wwidPattern.MatchString(handle) {
		return "", ErrInvalidWWID
	}
	fullWWID := handle + wwidSuffix

	exists, err := s.repo.WWIDExists(ctx, fullWWID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrWWIDTaken
	}

	state.WWID = fullWWID
	if err := s.regStore.Update(ctx, token, *state); err != nil {
		return "", err
	}

	return fullWWID, nil
}

func (s *service) CompleteRegistration(ctx context.Context, token, spin string) (*User, error) {
	state, err := s.regStore.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if state.WWID == "" {
		return nil, ErrSessionExpired
	}

	if !spinPattern.MatchString(spin) {
		return nil, ErrInvalidSPINFormat
	}

	spinHash, err := auth.HashSecret(spin)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, CreateUserParams{
		Username:     state.Username,
		Phone:        state.Phone,
		PasswordHash: state.PasswordHash,
		WWID:         state.WWID,
		SPINHash:     spinHash,
	})
	if err != nil {
		return nil, err
	}

	_ = s.regStore.Delete(ctx, token)

	return u, nil
}

// Login is phase one: password check only. The returned token is
// pin-phase and cannot reach anything but /auth/verify-pin.
func (s *service) Login(ctx context.Context, req LoginRequest) (string, *User, error) {
	u, err := s.repo.FindByUsernameOrPhone(ctx, req.UsernameOrPhone)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !auth.CheckSecret(u.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GeneratePinToken(u.ID, u.Username, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) VerifyPin(ctx context.Context, userID, spin string) (string, *User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckSecret(u.SPINHash, spin) {
		return "", nil, ErrInvalidSPIN
	}

	token, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// RecoverBySPIN grants a session to a user who lost their password but
// still knows the S-PIN. Either secret alone unlocking the account is an
// accepted product risk.
func (s *service) RecoverBySPIN(ctx context.Context, usernameOrPhone, spin string) (string, *User, error) {
	u, err := s.repo.FindByUsernameOrPhone(ctx, usernameOrPhone)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckSecret(u.SPINHash, spin) {
		return "", nil, ErrInvalidSPIN
	}

	token, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) RecoverByPassword(ctx context.Context, usernameOrPhone, password string) (string, *User, error) {
	u, err := s.repo.FindByUsernameOrPhone(ctx, usernameOrPhone)
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckSecret(u.PasswordHash, password) {
		return "", nil, ErrInvalidPassword
	}

	token, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile changes one account field. The S-PIN is re-proved for
// phone/password/wwid changes; a S-PIN change is proved by password.
func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (string, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if req.Field == "spin" {
		if !auth.CheckSecret(u.PasswordHash, req.VerifyWith) {
			return "", ErrInvalidPassword
		}
	} else {
		if !auth.CheckSecret(u.SPINHash, req.VerifyWith) {
			return "", ErrInvalidSPIN
		}
	}

	switch req.Field {
	case "phone":
		exists, err := s.repo.PhoneExists(ctx, req.Value)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrPhoneTaken
		}
		if err := s.repo.UpdatePhone(ctx, userID, req.Value); err != nil {
			return "", err
		}
		return "Phone updated successfully", nil

	case "password":
		hash, err := auth.HashSecret(req.Value)
		if err != nil {
			return "", err
		}
		if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
			return "", err
		}
		return "Password updated successfully", nil

	case "spin":
		if !spinPattern.MatchString(req.Value) {
			return "", ErrInvalidSPINFormat
		}
		hash, err := auth.HashSecret(req.Value)
		if err != nil {
			return "", err
		}
		if err := s.repo.UpdateSPINHash(ctx, userID, hash); err != nil {
			return "", err
		}
		return "S-PIN updated successfully", nil

	case "wwid":
		handle := req.Value
		if !wwidPattern.MatchString(handle) {
			return "", ErrInvalidWWID
		}
		fullWWID := handle + wwidSuffix

		exists, err := s.repo.WWIDExists(ctx, fullWWID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrWWIDTaken
		}

		if err := s.repo.ChangeWWID(ctx, userID, fullWWID, wwidChangeFee); err != nil {
			return "", err
		}
		return "WWID changed successfully. ₹10 deducted from your balance.", nil
	}

	return "", ErrUnknownField
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
