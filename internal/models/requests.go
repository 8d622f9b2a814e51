package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNameRequired    = errors.New("Name is required")
	ErrNameTooLong     = errors.New("Name must be at most 50 characters")
	ErrContentRequired = errors.New("Message content is required")
	ErrContentTooLong  = errors.New("Message content must be at most 1000 characters")
	ErrInvalidRequest  = errors.New("invalid request")
)

var validate = newValidator()

// newValidator reads the same `binding` tags gin uses so websocket and REST
// input share one set of rules. min/max count runes for strings.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

type JoinRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
	RoomID  string `json:"room_id"`
}

type CreateUserRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

func (r *JoinRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *CreateUserRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *CreateRoomRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *SendMessageRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
	r.RoomID = strings.TrimSpace(r.RoomID)
}

func (r JoinRequest) Validate() error       { return nameError(validate.Struct(r)) }
func (r CreateUserRequest) Validate() error { return nameError(validate.Struct(r)) }
func (r CreateRoomRequest) Validate() error { return nameError(validate.Struct(r)) }

func (r SendMessageRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidRequest
	}
	if verrs[0].Tag() == "max" {
		return ErrContentTooLong
	}
	return ErrContentRequired
}

func nameError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidRequest
	}
	if verrs[0].Tag() == "max" {
		return ErrNameTooLong
	}
	return ErrNameRequired
}
