package owner

import "errors"

var (
	ErrListingNotFound = errors.New("объект не найден")
	ErrBidAmount       = errors.New("ставка должна быть больше нуля")
	ErrBidRejected     = errors.New("ставка ниже текущего минимума")
)
