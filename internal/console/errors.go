package console

import "errors"

var (
	// После очистки от не-ASCII и пробелов ничего не осталось
	ErrEmptyAPIKey = errors.New("empty api key")
	// Оператор не подтвердил действие
	ErrDeclined = errors.New("action declined")
	// data-tab не из списка вкладок
	ErrUnknownTab = errors.New("unknown tab")
	// ErrNoCopyTarget — у кнопки копирования нет data-target
	ErrNoCopyTarget = errors.New("copy target is empty")
)
