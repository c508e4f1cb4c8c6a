package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shortspace/internal/engine/membership"
	"shortspace/internal/pkg/errors"
	"shortspace/internal/pkg/validator"
	"shortspace/internal/platform/auth"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/models"
	"shortspace/internal/platform/repositories"
)

type AuthHandler struct {
	userRepo   *repositories.UserRepository
	membership *membership.Service
	tokenSvc   *auth.TokenService
}

func NewAuthHandler(userRepo *repositories.UserRepository, ms *membership.Service, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		membership: ms,
		tokenSvc:   tokenSvc,
	}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Password2   string `json:"password2"`
	InviteToken string `json:"invite_token"`
}

type AuthResponse struct {
	User               *models.User    `json:"user"`
	Tokens             *auth.TokenPair `json:"tokens"`
	IsNewUser          bool            `json:"is_new_user,omitempty"`
	InvitationAccepted bool            `json:"invitation_accepted,omitempty"`
	OrganizationID     string          `json:"organization_id,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	fields := map[string]string{}
	if err := validator.ValidUsername(req.Username); err != nil {
		fields["username"] = err.Error()
	}
	if err := validator.ValidEmail(req.Email); err != nil {
		fields["email"] = err.Error()
	}
	if err := validator.ValidPassword(req.Password); err != nil {
		fields["password"] = err.Error()
	}
	if req.Password != req.Password2 {
		fields["password2"] = "passwords do not match"
	}
	if len(fields) > 0 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Validation failed", fields)
		return
	}

	// A bad invite token fails registration before any row is
	// written, so a user is never created half-joined.
	if req.InviteToken != "" {
		info, err := h.membership.ValidateInvitationToken(req.InviteToken)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Validation failed",
				map[string]string{"invite_token": err.Error()})
			return
		}
		if !strings.EqualFold(info.Email, req.Email) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Validation failed",
				map[string]string{"invite_token": "This invitation was sent to " + info.Email + ", but you signed up with " + req.Email + "."})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:           "usr_" + uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.userRepo.Create(user); err != nil {
		if database.IsUniqueViolation(err) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Validation failed",
				map[string]string{"username": "a user with this username or email already exists"})
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create user", nil)
		return
	}

	resp := AuthResponse{User: user, IsNewUser: true}

	if req.InviteToken != "" {
		result, err := h.membership.AcceptInvitation(user, req.InviteToken)
		if err != nil {
			errors.Write(w, err)
			return
		}
		resp.InvitationAccepted = true
		resp.OrganizationID = result.OrganizationID
	}

	tokens, err := h.tokenSvc.IssueTokenPair(user)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate tokens", nil)
		return
	}
	resp.Tokens = tokens

	writeJSON(w, http.StatusCreated, resp)
}

type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	InviteToken string `json:"invite_token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, err := h.userRepo.GetByUsername(req.Username)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	resp := AuthResponse{User: user}

	if req.InviteToken != "" {
		result, err := h.membership.AcceptInvitation(user, req.InviteToken)
		if err != nil {
			errors.Write(w, err)
			return
		}
		resp.InvitationAccepted = true
		resp.OrganizationID = result.OrganizationID
	}

	tokens, err := h.tokenSvc.IssueTokenPair(user)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate tokens", nil)
		return
	}
	resp.Tokens = tokens

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "User not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
