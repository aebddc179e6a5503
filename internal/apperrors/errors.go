package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrNotRegistered indicates the caller referenced an account that was never registered.
var ErrNotRegistered = errors.New("account not registered")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInsufficientFunds indicates a debit would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAttemptsExceeded indicates the KYC submission limit has been reached.
var ErrAttemptsExceeded = errors.New("kyc attempts exceeded")

// ErrEditLimitExceeded indicates the single post-approval KYC edit was already used.
var ErrEditLimitExceeded = errors.New("kyc edit limit exceeded")

// ErrNoPendingIntent indicates no open purchase intent exists for the account/channel pair.
var ErrNoPendingIntent = errors.New("no pending purchase intent")

// ErrAlreadyConfirmed indicates the purchase intent was already confirmed and credited.
var ErrAlreadyConfirmed = errors.New("purchase already confirmed")

// ErrPriceUnavailable indicates the external price feed could not supply a quote.
var ErrPriceUnavailable = errors.New("price unavailable")

// ErrExternalTimeout indicates an external collaborator call exceeded its deadline.
var ErrExternalTimeout = errors.New("external call timed out")

// ErrPaymentNotVerified indicates the payment provider did not verify the payment.
var ErrPaymentNotVerified = errors.New("payment not verified")
