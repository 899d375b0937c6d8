package handler

import (
	"net/http"

	"github.com/marketgrid/orders-api/internal/auth"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/service"
	"go.uber.org/zap"
)

// AccountHandler handles registration, login, tokens and the profile
type AccountHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Register godoc
// @Summary Register
// @Description Create a new account and send the email confirmation link
// @Tags Account
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 409 {object} domain.StatusResponse
// @Router /account/register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.accountService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// ConfirmEmail godoc
// @Summary Confirm email
// @Description Confirm the account email from the mailed token
// @Tags Account
// @Accept json
// @Produce json
// @Param request body object{token=string} true "Confirmation token"
// @Success 200 {object} domain.StatusResponse
// @Failure 400 {object} domain.StatusResponse
// @Router /account/confirm-email [post]
func (h *AccountHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.accountService.ConfirmEmail(r.Context(), req.Token); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.StatusResponse{
		Status:  true,
		Message: "Email confirmed",
	})
}

// Login godoc
// @Summary Login
// @Description Exchange credentials for a token pair
// @Tags Account
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.TokenPairResponse
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Router /account/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	pair, err := h.accountService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Rotate the token pair from a valid refresh token
// @Tags Account
// @Accept json
// @Produce json
// @Param request body domain.RefreshRequest true "Refresh token"
// @Success 200 {object} domain.TokenPairResponse
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Router /account/token/refresh [post]
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	pair, err := h.accountService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

// GetProfile godoc
// @Summary Get profile
// @Description Get the current account with its contacts
// @Tags Account
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /account/profile [get]
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	user, err := h.accountService.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Update the mutable profile fields
// @Tags Account
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Profile data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.StatusResponse
// @Failure 401 {object} domain.StatusResponse
// @Security BearerAuth
// @Router /account/profile [put]
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.accountService.UpdateProfile(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
