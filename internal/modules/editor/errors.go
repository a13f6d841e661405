package editor

import "errors"

var (
	ErrRoomInvalid     = errors.New("укажите тип номера и цену больше нуля")
	ErrIndexRange      = errors.New("номер с таким индексом не существует")
	ErrNotEditing      = errors.New("номер не открыт для редактирования")
	ErrUnknownTemplate = errors.New("неизвестный шаблон номера")
	ErrSessionClosed   = errors.New("сессия редактирования не открыта")
	ErrSubmitInFlight  = errors.New("сохранение уже выполняется")
	ErrSaveFailed      = errors.New("не удалось сохранить объект")
)
