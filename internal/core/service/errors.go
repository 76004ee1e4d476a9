package service

import (
	"errors"

	"github.com/rl1809/techmart/internal/port"
)

var (
	ErrInvalidItem         = errors.New("invalid cart item")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrCorruptCart         = port.ErrCorruptCart
	ErrProductNotFound     = errors.New("product not found")
	ErrCompareFull         = errors.New("compare list is full")
	ErrQueryTooShort       = errors.New("search query too short")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrFormBusy            = errors.New("form submission in progress")
	ErrSessionClosed       = errors.New("session closed")
	ErrUnknownAction       = errors.New("unknown action")
)
