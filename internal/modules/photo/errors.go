package photo

import "errors"

var (
	ErrBadImage      = errors.New("файл не является изображением")
	ErrTooManyPhotos = errors.New("максимум 10 фотографий")
	ErrEmptyBatch    = errors.New("не выбрано ни одного файла")
	ErrIndexRange    = errors.New("индекс фотографии вне диапазона")
	ErrUploadFailed  = errors.New("не удалось загрузить фотографии")
)
