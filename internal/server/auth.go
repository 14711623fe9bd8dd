package server

import (
	"encoding/json"
	"net/http"

	"rentdesk/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}

func (s *Service) handleLoginInfo(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "submit credentials with POST to receive an access token",
	})
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": in.Email,
			"PASSWORD": in.Password,
		},
	}

	resp, err := s.cognito.InitiateAuth(r.Context(), input)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.logger.WithError(err).Debug("cognito auth rejected")
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.respondError(w, http.StatusUnauthorized, "login failed")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"access_token": aws.ToString(resp.AuthenticationResult.AccessToken),
		"token_type":   "bearer",
		"expires_in":   int(resp.AuthenticationResult.ExpiresIn),
	})
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(in.Email), // use email as username
		Password: aws.String(in.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(in.Email)},
			{Name: aws.String("name"), Value: aws.String(in.Name)},
		},
	}

	resp, err := s.cognito.SignUp(r.Context(), input)
	if err != nil {
		s.logger.WithError(err).Error("failed to signup user")
		s.respondError(w, http.StatusBadRequest, "registration failed")
		return
	}

	user := &types.User{
		ID:    aws.ToString(resp.UserSub),
		Email: &in.Email,
		Name:  &in.Name,
		Role:  types.UserRoleTenant,
	}
	if in.Phone != "" {
		user.Phone = &in.Phone
	}

	if err := s.stores.Users.Create(r.Context(), user); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered",
		"user_id": user.ID,
	})
}
