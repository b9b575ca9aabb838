package repository

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAdNotFound       = errors.New("ad not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrVINExists        = errors.New("ad with this VIN already exists")
)
