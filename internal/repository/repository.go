// Package repository содержит реализации хранилища данных бэк-офиса.
package repository

import "errors"

// ErrUserExists возвращается при попытке создать пользователя с занятым логином или email.
var (
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrBatchNotFound возвращается, если партия продукции не найдена.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrStockConflict возвращается, если остаток партии изменился между чтением и списанием.
	// План списания в этом случае не применяется целиком.
	ErrStockConflict = errors.New("batch stock changed concurrently")
)
