package console

import "github.com/atotto/clipboard"

// SystemClipboard пишет в буфер обмена машины, где запущена консоль.
// Нужен xclip/xsel на Linux; без них WriteAll вернет ошибку.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
