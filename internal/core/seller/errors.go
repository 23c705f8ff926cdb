package seller

import "errors"

var (
	ErrSellerNotFound     = errors.New("seller: not found")
	ErrDepartmentNotFound = errors.New("seller: department not found")
	ErrInvalidID          = errors.New("seller: invalid id")
	ErrInvalidEmail       = errors.New("seller: invalid email")
	ErrInvalidBirthDate   = errors.New("seller: invalid birth date")
	ErrInvalidBaseSalary  = errors.New("seller: invalid base salary")
)
