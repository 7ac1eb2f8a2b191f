package dto

import (
	"encoding/json"

	"taskboss/model"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	FullName string `json:"full_name" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

var UserFieldMap = FieldMap{
	"full_name": "full_name",
	"fullName":  "full_name",
	"picture":   "picture",
}

type UserInput struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Picture  *string `json:"picture" binding:"omitempty,max=2048"`

	Present Fields `json:"-"`
}

func DecodeUserInput(raw map[string]json.RawMessage) (*UserInput, error) {
	in := &UserInput{}
	present, err := decodeFields(raw, UserFieldMap, in)
	if err != nil {
		return nil, err
	}
	in.Present = present
	return in, nil
}

type PreferencesRequest struct {
	AIModels map[string]string `json:"ai_models" binding:"required"`
}
