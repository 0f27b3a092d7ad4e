package http

import (
	"net/http"

	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// register
//
//	@Summary	Регистрация пользователя
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		registerRequest	true	"Учётные данные"
//	@Success	201		{object}	UserResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth/users [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	user, err := h.authUsecase.Register(r.Context(), &usecase.RegisterReq{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	h.logger.Infof("User %d registered", user.ID)
	WriteSuccess(w, http.StatusCreated, toUserResponse(user))
}

// me
//
//	@Summary	Текущий пользователь
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/users/me [get]
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authUsecase.Me(r.Context(), SubjectFromContext(r.Context()))
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponse(user))
}

// createToken
//
//	@Summary	Выдать пару JWT
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Логин и пароль"
//	@Success	200		{object}	TokenPairResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/jwt/create [post]
func (h *AuthHandler) createToken(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	pair, err := h.authUsecase.Login(r.Context(), &usecase.LoginReq{Username: req.Username, Password: req.Password})
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// refreshToken
//
//	@Summary	Обновить access-токен
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		refreshRequest	true	"Refresh-токен"
//	@Success	200		{object}	AccessTokenResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/auth/jwt/refresh [post]
func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	accessToken, err := h.authUsecase.Refresh(r.Context(), req.Refresh)
	if err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, AccessTokenResponse{Access: accessToken})
}

// verifyToken
//
//	@Summary	Проверить токен
//	@Tags		auth
//	@Accept		json
//	@Param		body	body	verifyRequest	true	"Токен"
//	@Success	200
//	@Failure	401	{object}	ErrorResponse
//	@Router		/auth/jwt/verify [post]
func (h *AuthHandler) verifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	if err := h.authUsecase.Verify(r.Context(), req.Token); err != nil {
		handleError(h.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, struct{}{})
}
