package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameMaxLength = 150
	passwordMinLength = 8
	passwordMaxLength = 72 // предел bcrypt
)

// AuthUseCase отвечает за регистрацию, выдачу токенов и определение субъекта запроса.
type AuthUseCase struct {
	userRepo   UserRepository
	tokens     TokenIssuer
	logger     logger.Logger
	bcryptCost int
}

func NewAuthUC(userRepo UserRepository, tokens TokenIssuer, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:   userRepo,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register создаёт обычного пользователя. Через API нельзя стать администратором.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*domain.User, error) {
	user, err := a.createUser(ctx, req, false)
	if err != nil {
		return nil, e.Wrap("AuthUseCase.Register", err)
	}

	return user, nil
}

// CreateAdmin создаёт администратора каталога. Вызывается из CLI.
func (a *AuthUseCase) CreateAdmin(ctx context.Context, req *RegisterReq) (*domain.User, error) {
	user, err := a.createUser(ctx, req, true)
	if err != nil {
		return nil, e.Wrap("AuthUseCase.CreateAdmin", err)
	}

	a.logger.Infof("Admin user %q created, id=%d", user.Username, user.ID)

	return user, nil
}

func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*TokenPair, error) {
	const op = "AuthUseCase.Login"

	user, err := a.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrUnauthorized)
		}
		return nil, e.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	accessToken, err := a.tokens.Issue(user.ID, TokenAccess)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	refreshToken, err := a.tokens.Issue(user.ID, TokenRefresh)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Refresh выдаёт новый access-токен по refresh-токену.
func (a *AuthUseCase) Refresh(ctx context.Context, refresh string) (string, error) {
	const op = "AuthUseCase.Refresh"

	user, err := a.userFromToken(ctx, refresh, TokenRefresh)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	accessToken, err := a.tokens.Issue(user.ID, TokenAccess)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return accessToken, nil
}

// Verify проверяет подпись и срок действия токена любого типа.
func (a *AuthUseCase) Verify(_ context.Context, token string) error {
	if _, err := a.tokens.Parse(token); err != nil {
		return e.Wrap("AuthUseCase.Verify", err)
	}

	return nil
}

// Authenticate превращает access-токен в субъект. Токен удалённого пользователя недействителен.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*access.Subject, error) {
	user, err := a.userFromToken(ctx, token, TokenAccess)
	if err != nil {
		return nil, e.Wrap("AuthUseCase.Authenticate", err)
	}

	return &access.Subject{UserID: user.ID, Admin: user.IsStaff}, nil
}

func (a *AuthUseCase) Me(ctx context.Context, subject *access.Subject) (*domain.User, error) {
	const op = "AuthUseCase.Me"

	if subject == nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	user, err := a.userRepo.GetByID(ctx, subject.UserID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrUnauthorized)
		}
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

func (a *AuthUseCase) createUser(ctx context.Context, req *RegisterReq, isStaff bool) (*domain.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.bcryptCost)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(strings.TrimSpace(req.Username), req.Email, string(hash), isStaff))
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (a *AuthUseCase) userFromToken(ctx context.Context, token string, typ TokenType) (*domain.User, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	if claims.Type != typ {
		return nil, fmt.Errorf("expected %s token, got %s: %w", typ, claims.Type, e.ErrUnauthorized)
	}

	user, err := a.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", claims.UserID, e.ErrUnauthorized)
		}
		return nil, err
	}

	return user, nil
}

func validateRegistration(req *RegisterReq) error {
	f := fieldErrors{}

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		f["username"] = "this field may not be blank"
	case utf8.RuneCountInString(username) > usernameMaxLength:
		f["username"] = fmt.Sprintf("ensure this field has no more than %d characters", usernameMaxLength)
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			f["email"] = "enter a valid email address"
		}
	}

	switch n := len(req.Password); {
	case n < passwordMinLength:
		f["password"] = fmt.Sprintf("ensure this field has at least %d characters", passwordMinLength)
	case n > passwordMaxLength:
		f["password"] = fmt.Sprintf("ensure this field has no more than %d bytes", passwordMaxLength)
	}

	return f.err()
}
