package entity

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrLogNotFound        = errors.New("communication log not found")
	ErrUserNotFound       = errors.New("user not found")
)
