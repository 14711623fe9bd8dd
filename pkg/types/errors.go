package types

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrUnitNotFound         = errors.New("unit not found")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrRequestNotFound      = errors.New("maintenance request not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
