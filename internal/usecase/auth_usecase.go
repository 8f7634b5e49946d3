package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"chatspace/internal/domain/entity"
	"chatspace/internal/domain/repository"
	"chatspace/internal/infrastructure/ratelimit"
	"chatspace/pkg/errors"
)

var nameRegexp = regexp.MustCompile(`^[a-zA-Z ]{2,30}$`)

type AuthUseCase struct {
	userRepo           repository.UserRepository
	hasher             PasswordHasher
	tokenService       TokenService
	notifier           Notifier
	rateLimiter        *ratelimit.RateLimiter
	clientURL          string
	resetTokenValidity time.Duration
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokenService TokenService,
	notifier Notifier,
	rateLimiter *ratelimit.RateLimiter,
	clientURL string,
	resetTokenValidity time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:           userRepo,
		hasher:             hasher,
		tokenService:       tokenService,
		notifier:           notifier,
		rateLimiter:        rateLimiter,
		clientURL:          clientURL,
		resetTokenValidity: resetTokenValidity,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

type AuthResult struct {
	User  *entity.User
	Token string
}

func (uc *AuthUseCase) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if !nameRegexp.MatchString(input.Name) {
		return nil, errors.BadRequest("Name must be 2-30 characters, no numbers or special characters", nil)
	}
	if input.Password != input.PasswordConfirm {
		return nil, errors.BadRequest("Passwords must match", nil)
	}

	email := strings.ToLower(input.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("User already exists")
	}

	hashed, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    email,
		Password: hashed,
		Role:     "user",
		Photo:    "default.jpg",
		Active:   true,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokenService.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, errors.BadRequest("Please provide email and password", nil)
	}

	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		// One message for both cases; do not reveal which part was wrong.
		return nil, errors.Unauthorized("Incorrect email or password", nil)
	}
	if !uc.hasher.Compare(user.Password, password) {
		return nil, errors.Unauthorized("Incorrect email or password", nil)
	}

	token, err := uc.tokenService.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ForgotPassword issues a reset token and mails the reset link. Only the
// SHA-256 digest of the token is stored.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return errors.NotFound("User", err)
	}

	if allowed, _ := uc.rateLimiter.Allow(user.ID, "forgot_password"); !allowed {
		return errors.TooManyRequests("Too many reset requests. Please wait before trying again")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return errors.Internal("Failed to generate reset token", err)
	}
	resetToken := hex.EncodeToString(raw)

	user.PasswordResetToken = hashToken(resetToken)
	user.PasswordResetExpires = time.Now().Add(uc.resetTokenValidity)
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password/%s", uc.clientURL, resetToken)
	if err := uc.notifier.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Printf("ForgotPassword: Failed to mail reset link to %s: %v", user.Email, err)
		// The stored token is useless if the mail never left; roll it back.
		user.PasswordResetToken = ""
		user.PasswordResetExpires = time.Time{}
		if rbErr := uc.userRepo.Update(ctx, user); rbErr != nil {
			log.Printf("ForgotPassword: Failed to clear reset token for %s: %v", user.ID, rbErr)
		}
		return err
	}

	return nil
}

func (uc *AuthUseCase) ResetPassword(ctx context.Context, resetToken, password, passwordConfirm string) (*AuthResult, error) {
	if password == "" || passwordConfirm == "" {
		return nil, errors.BadRequest("Please provide password and password confirmation", nil)
	}
	if password != passwordConfirm {
		return nil, errors.BadRequest("Passwords must match", nil)
	}

	user, err := uc.userRepo.GetByResetToken(ctx, hashToken(resetToken))
	if err != nil {
		return nil, errors.BadRequest("Token is invalid or has expired", nil)
	}
	if time.Now().After(user.PasswordResetExpires) {
		return nil, errors.BadRequest("Token is invalid or has expired", nil)
	}

	hashed, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user.Password = hashed
	user.PasswordResetToken = ""
	user.PasswordResetExpires = time.Time{}
	user.PasswordChangedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokenService.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
