package admin

import "errors"

var (
	ErrNotFound            = errors.New("запись не найдена")
	ErrBadModerationStatus = errors.New("недопустимый статус модерации")
	ErrBadModerationAction = errors.New("действие должно быть approve или reject")
	ErrReasonRequired      = errors.New("укажите причину отклонения")
	ErrBadRating           = errors.New("оценка заполненности от 1 до 5")
	ErrBonusAmount         = errors.New("сумма бонуса должна быть больше нуля")
)
