package console

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/keystore"
	"go.uber.org/zap"
)

// Phase состояние сессии оператора.
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseDisconnected
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseDisconnected:
		return "disconnected"
	default:
		return "unauthenticated"
	}
}

// storeTimeout ограничивает обращения к хранилищу из колбэков клиента,
// у которых нет своего контекста.
const storeTimeout = 5 * time.Second

// Session владеет ключом оператора, модальным окном и строкой статуса.
// Реализует adminapi.Session.
type Session struct {
	mu      sync.Mutex
	key     string
	phase   Phase
	store   keystore.Store
	surface view.Surface
	logger  *zap.Logger

	// onConnected вызывается при смене флага соединения (метрики)
	onConnected func(bool)
}

func NewSession(store keystore.Store, surface view.Surface, logger *zap.Logger) *Session {
	return &Session{
		store:   store,
		surface: surface,
		logger:  logger.Named("session"),
	}
}

// Restore поднимает ключ из хранилища при старте.
// Без ключа открывает модальное окно.
func (s *Session) Restore(ctx context.Context) error {
	key, ok, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load api key", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		s.key = ""
		s.phase = PhaseUnauthenticated
		s.showModalLocked()
		return err
	}
	s.key = key
	s.phase = PhaseConnecting
	s.hideModalLocked()
	s.renderStatusLocked()
	return err
}

// Authenticate принимает ввод из формы: выбрасывает не-ASCII символы,
// обрезает пробелы и сохраняет ключ.
func (s *Session) Authenticate(ctx context.Context, raw string) error {
	key := SanitizeKey(raw)
	if key == "" {
		return ErrEmptyAPIKey
	}

	s.logger.Info("saving api key", zap.String("prefix", keyPrefix(key)+"..."))
	if err := s.store.Save(ctx, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.phase = PhaseConnecting
	s.hideModalLocked()
	return nil
}

// Logout стирает ключ отовсюду и возвращает модальное окно.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	s.phase = PhaseUnauthenticated
	s.showModalLocked()
	return err
}

func (s *Session) APIKey() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, s.key != ""
}

// Rejected срабатывает ровно один раз на ключ: повторные 403 от
// параллельных запросов с тем же ключом уже ничего не находят.
func (s *Session) Rejected(key string) {
	s.mu.Lock()
	if s.key == "" || s.key != key {
		s.mu.Unlock()
		return
	}
	s.key = ""
	s.phase = PhaseUnauthenticated
	s.showModalLocked()
	s.mu.Unlock()

	s.logger.Warn("api key rejected, clearing store")

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear api key", zap.Error(err))
	}
}

// Unreachable: сеть недоступна, отключаемся и даем перевести ключ.
func (s *Session) Unreachable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key != "" {
		s.phase = PhaseDisconnected
	}
	s.showModalLocked()
}

// RequireKey вызывается, когда запрос не ушел из-за отсутствия ключа.
func (s *Session) RequireKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showModalLocked()
}

// MarkConnected вызывается после успешной выборки статистики.
func (s *Session) MarkConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == "" {
		return
	}
	s.phase = PhaseConnected
	s.renderStatusLocked()
}

// MarkDisconnected — выборка упала. Модальное окно не трогаем.
func (s *Session) MarkDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key != "" {
		s.phase = PhaseDisconnected
	} else {
		s.phase = PhaseUnauthenticated
	}
	s.renderStatusLocked()
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Connected() bool {
	return s.Phase() == PhaseConnected
}

func (s *Session) showModalLocked() {
	s.surface.ToggleClass(view.AuthModal, view.Hidden, false)
	if s.phase == PhaseConnected {
		s.phase = PhaseDisconnected
	}
	s.renderStatusLocked()
}

func (s *Session) hideModalLocked() {
	s.surface.ToggleClass(view.AuthModal, view.Hidden, true)
}

func (s *Session) renderStatusLocked() {
	connected := s.phase == PhaseConnected
	if connected {
		s.surface.SetClass(view.StatusDot, "dot connected")
		s.surface.SetText(view.StatusText, "Connected")
	} else {
		s.surface.SetClass(view.StatusDot, "dot")
		s.surface.SetText(view.StatusText, "Disconnected")
	}
	if s.onConnected != nil {
		s.onConnected(connected)
	}
}

// SanitizeKey убирает все символы вне ASCII и пробелы по краям.
func SanitizeKey(raw string) string {
	key := strings.Map(func(r rune) rune {
		if r > 0x7F {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(key)
}

func keyPrefix(key string) string {
	if len(key) > 5 {
		return key[:5]
	}
	return key
}
