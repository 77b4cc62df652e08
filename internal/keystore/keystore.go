// Package keystore хранит API-ключ оператора между запусками консоли.
//
// Хранилище имеет ровно один слот; значения "null" и "undefined" остались
// от некорректных записей браузерной версии и читаются как отсутствие ключа.
package keystore

import (
	"context"
	"sync"
)

// Store — единственный строковый слот под фиксированным именем.
type Store interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// normalize отбрасывает пустые значения и сентинелы прошлых плохих записей.
func normalize(raw string) (string, bool) {
	switch raw {
	case "", "null", "undefined":
		return "", false
	}
	return raw, true
}

// Memory Хранилище в памяти процесса (тесты, --ephemeral).
type Memory struct {
	mu  sync.Mutex
	val string
}

func NewMemory(initial string) *Memory {
	return &Memory{val: initial}
}

func (m *Memory) Load(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := normalize(m.val)
	return key, ok, nil
}

func (m *Memory) Save(_ context.Context, key string) error {
	m.mu.Lock()
	m.val = key
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.val = ""
	m.mu.Unlock()
	return nil
}
