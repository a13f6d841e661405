package catalog

import "errors"

var (
	ErrCityRequired    = errors.New("укажите город")
	ErrListingNotFound = errors.New("объект не найден")
	ErrRoomNotFound    = errors.New("номер не найден")
)
