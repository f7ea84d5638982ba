package multiboot

import (
	"errors"

	"github.com/asiekierka/agbabi/translate"
)

var f = translate.From

var (
	ErrHeaderSize    = errors.New(f("header must be 96 halfwords"))
	ErrDataSize      = errors.New(f("data must be a non-empty multiple of 4 bytes"))
	ErrNoClients     = errors.New(f("no clients detected"))
	ErrCancelled     = errors.New(f("transfer cancelled"))
	ErrClientFailure = errors.New(f("client failed handshake"))
	ErrChecksum      = errors.New(f("checksum mismatch"))
)
