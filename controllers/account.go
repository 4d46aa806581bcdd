package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campus-events/middleware"
	"campus-events/models"
	"campus-events/store"
	"campus-events/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AccountController handles signup, login and profile for one role
type AccountController struct {
	Role   string
	Store  store.AccountStore
	Tokens *utils.TokenManager
	Log    *zerolog.Logger
}

func NewAccountController(role string, s store.AccountStore, tokens *utils.TokenManager, log *zerolog.Logger) *AccountController {
	return &AccountController{Role: role, Store: s, Tokens: tokens, Log: log}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Dept     string `json:"dept"`
	RollNo   string `json:"rollNo"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AccountController) issue(w http.ResponseWriter, status int, acc *models.Account) {
	token, err := ac.Tokens.GenerateJWT(acc.ID.Hex(), acc.Email, ac.Role)
	if err != nil {
		ac.Log.Error().Err(err).Msg("token generation failed")
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	writeJSON(w, status, map[string]interface{}{"success": true, "token": token, "user": acc})
}

// Signup handles account registration
func (ac *AccountController) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}
	acc := &models.Account{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Dept:     req.Dept,
		Role:     ac.Role,
	}
	if ac.Role == models.RoleStudent {
		acc.RollNo = req.RollNo
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if _, err := ac.Store.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		ac.Log.Error().Err(err).Str("role", ac.Role).Msg("signup failed")
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	ac.issue(w, http.StatusCreated, acc)
}

// Login handles account authentication
func (ac *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	acc, err := ac.Store.FindAccountByEmail(ctx, ac.Role, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		ac.Log.Error().Err(err).Str("role", ac.Role).Msg("login lookup failed")
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	ac.issue(w, http.StatusOK, acc)
}

// GetProfile returns the authenticated account
func (ac *AccountController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := store.ParseID(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	acc, err := ac.Store.FindAccountByID(ctx, ac.Role, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		ac.Log.Error().Err(err).Msg("profile lookup failed")
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": acc})
}
