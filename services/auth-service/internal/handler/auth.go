package handler

import (
	"errors"
	"net/http"

	"github.com/vasapolrittideah/auth-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/auth-api/shared/payload"
)

const (
	msgRegisterFailed = "Could not create user"
	msgUserNotFound   = "User not found"
	msgInternal       = "something went wrong"
)

func (h *authHTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, payload.ValidationErrorResponse{
			Message: msgRegisterFailed,
			Errors:  map[string]string{"body": "request body must be a JSON object"},
		})
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var validationErr *usecase.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, payload.ValidationErrorResponse{
				Message: msgRegisterFailed,
				Errors:  validationErr.Fields,
			})
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusCreated, payload.RegisterResponse{
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
	})
}

func (h *authHTTPHandler) login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			writeError(w, http.StatusNotFound, msgUserNotFound)
		default:
			h.logger.Error().Err(err).Msg("failed to log in user")
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, payload.LoginResponse{
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
		Name:        result.Name,
	})
}
