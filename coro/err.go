package coro

import (
	"errors"

	"github.com/asiekierka/agbabi/translate"
)

var f = translate.From

var (
	ErrStackAlign = errors.New(f("stack not word aligned"))
	ErrStackRange = errors.New(f("stack beyond 31-bit range"))
	ErrJoined     = errors.New(f("coroutine already joined"))
	ErrRunning    = errors.New(f("coroutine already running"))
	ErrNotRunning = errors.New(f("coroutine not running"))
)
