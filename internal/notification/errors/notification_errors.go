package notificationerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	// Out-of-scope ids answer the same as missing ids on purpose: the API must
	// not reveal whether a notification exists for someone else.
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrInvalidNotificationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification id",
		http.StatusBadRequest,
	)
	ErrInvalidRecipient = apperror.New(
		apperror.CodeInvalidInput,
		"invalid recipient",
		http.StatusBadRequest,
	)
)
