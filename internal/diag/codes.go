package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Сканирование источников
	ScanInfo             Code = 1000
	ScanUnterminatedArgs Code = 1001
	ScanUnterminatedStr  Code = 1002

	// Резолв ссылок
	ResolveInfo       Code = 2000
	ResolveFailed     Code = 2001
	ResolveBadRequest Code = 2002

	// Генерация кода / патчи
	GenInfo          Code = 3000
	GenPatchConflict Code = 3001
	GenStaleSite     Code = 3002

	// Ввод-вывод
	IOLoadFileError  Code = 4000
	IOWriteFileError Code = 4001
)

// ID returns the canonical textual identifier for the code, e.g. "WP2001".
func (c Code) ID() string {
	return fmt.Sprintf("WP%04d", uint16(c))
}

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "unknown"
	case ScanInfo:
		return "scan-info"
	case ScanUnterminatedArgs:
		return "scan-unterminated-args"
	case ScanUnterminatedStr:
		return "scan-unterminated-string"
	case ResolveInfo:
		return "resolve-info"
	case ResolveFailed:
		return "resolve-failed"
	case ResolveBadRequest:
		return "resolve-bad-request"
	case GenInfo:
		return "gen-info"
	case GenPatchConflict:
		return "gen-patch-conflict"
	case GenStaleSite:
		return "gen-stale-site"
	case IOLoadFileError:
		return "io-load-file"
	case IOWriteFileError:
		return "io-write-file"
	}
	return fmt.Sprintf("code-%d", uint16(c))
}
