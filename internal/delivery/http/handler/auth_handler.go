package handler

import (
	"errors"

	"skillera/internal/delivery/http/dto"
	"skillera/internal/delivery/http/middleware"
	"skillera/internal/domain/user"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"
	ucauth "skillera/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc      usecase.AuthUsecase
	limiter fiber.Handler
}

type signupRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Age      *int    `json:"age" validate:"omitempty,min=0,max=150"`
	Location *string `json:"location"`
	TimeZone *string `json:"timeZone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewAuthHandler wires the auth routes. limiter, when not nil, guards signup
// and login.
func NewAuthHandler(uc usecase.AuthUsecase, limiter fiber.Handler) *AuthHandler {
	return &AuthHandler{uc: uc, limiter: limiter}
}

// RegisterRoutes mounts signup, login and refresh as public routes; /me
// requires auth.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.limiter != nil {
		r.Post("/signup", h.limiter, h.Signup)
		r.Post("/login", h.limiter, h.Login)
	} else {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	}
	r.Post("/refresh", h.Refresh)
	r.Get("/me", auth, h.Me)
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req signupRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Location: req.Location,
		TimeZone: req.TimeZone,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "User created", newAuthResponse(res))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, newAuthResponse(res))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	pair, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTokenResponse(pair))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(prof))
}

func newAuthResponse(res usecase.AuthResult) dto.AuthResponse {
	prof := dto.NewProfileResponse(user.Profile{User: res.User, Skills: res.Skills})
	return dto.AuthResponse{User: prof, Tokens: dto.NewTokenResponse(res.Tokens)}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, ucauth.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return mapUsecaseError(err)
	}
}
