package models

import (
	"errors"
	"fmt"
)

// Ошибки ядра корзины
var (
	// ErrValidation мутация нарушает предусловия (остаток, количество, доступность корзины).
	// Сервер не вызывается, состояние не меняется.
	ErrValidation = errors.New("validation failed")

	// ErrCartDisabled операции с корзиной запрещены для текущей identity
	ErrCartDisabled = fmt.Errorf("%w: cart operations are disabled", ErrValidation)

	// ErrInsufficientStock нельзя добавить больше известного остатка
	ErrInsufficientStock = fmt.Errorf("%w: not enough stock", ErrValidation)

	// ErrNotShopper корзина доступна только покупателям
	ErrNotShopper = fmt.Errorf("%w: cart is not available for this role", ErrValidation)

	// ErrNoIdentity нет активного пользователя
	ErrNoIdentity = fmt.Errorf("%w: no active identity", ErrValidation)

	// ErrMutationInProgress по этой позиции уже выполняется мутация
	ErrMutationInProgress = errors.New("mutation in progress")

	// ErrTransientRemote сетевая ошибка или 5xx; можно повторить
	ErrTransientRemote = errors.New("transient remote error")

	// ErrNotFound удаленная сторона ответила "не найдено"
	ErrNotFound = errors.New("not found")

	// ErrRemoteForbidden сервер отказал в операции с корзиной (403): корзина отключена
	// или принадлежит другому пользователю. Не является ErrValidation.
	ErrRemoteForbidden = errors.New("cart operation rejected by server")

	// ErrConflict состояние сервера расходится с оптимистичным предположением
	ErrConflict = errors.New("conflict with server state")

	// ErrStaleSession результат относится к предыдущей identity и был отброшен
	ErrStaleSession = errors.New("identity changed, result dropped")
)
