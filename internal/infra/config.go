package infra

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации консоли.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Console  ConsoleConfig  `mapstructure:"console"`
	KeyStore KeyStoreConfig `mapstructure:"keystore"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig описывает настройки HTTP-сервера консоли.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr собирает адрес для http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig описывает удаленный административный API.
type APIConfig struct {
	// BaseURL перекрывает выбор dev/prod по имени хоста
	BaseURL   string        `mapstructure:"base_url"`
	DevURL    string        `mapstructure:"dev_url"`
	ProdURL   string        `mapstructure:"prod_url"`
	KeyHeader string        `mapstructure:"key_header"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// Настройки Circuit Breaker
	CBMaxRequests int           `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
	CBMaxFailures int           `mapstructure:"cb_max_failures"`
}

// ConsoleConfig задает поведение самой консоли (опрос, тосты, форматирование).
type ConsoleConfig struct {
	// Имя хоста, под которым оператор открывает консоль
	Host            string        `mapstructure:"host"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	ToastDuration   time.Duration `mapstructure:"toast_duration"`
	Timezone        string        `mapstructure:"timezone"`
	EventsPerSecond float64       `mapstructure:"events_per_second"`
	EventBurst      int           `mapstructure:"event_burst"`
	Clipboard       string        `mapstructure:"clipboard"` // none, system
}

// KeyStoreConfig выбирает, где живет API-ключ оператора.
type KeyStoreConfig struct {
	Backend string `mapstructure:"backend"` // file, redis, memory
	Path    string `mapstructure:"path"`
}

// RedisConfig описывает подключение к Redis (хранилище ключа).
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Namespace string `mapstructure:"namespace"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// MetricsConfig включает /metrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
// Пустой path означает поиск config.yaml в стандартных каталогах.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// 2. Переменные окружения: CONSOLE_REFRESH_INTERVAL=10s перекроет console.refresh_interval
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Дефолты
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Файла нет: работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate отсекает значения, с которыми консоль не сможет работать.
func (c *Config) Validate() error {
	if c.Console.RefreshInterval <= 0 {
		return errors.New("console.refresh_interval must be positive")
	}
	switch c.KeyStore.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("unknown keystore.backend %q", c.KeyStore.Backend)
	}
	if c.KeyStore.Backend == "file" && c.KeyStore.Path == "" {
		return errors.New("keystore.path is required for the file backend")
	}
	if _, err := time.LoadLocation(c.Console.Timezone); err != nil {
		return fmt.Errorf("invalid console.timezone: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("api.dev_url", "http://localhost:8000/api/v1")
	v.SetDefault("api.prod_url", "https://threats.cyberapi.io/api/v1")
	v.SetDefault("api.key_header", "X-API-Key")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.cb_max_requests", 1)
	v.SetDefault("api.cb_interval", 30*time.Second)
	v.SetDefault("api.cb_timeout", 10*time.Second)
	v.SetDefault("api.cb_max_failures", 5)

	v.SetDefault("console.host", "localhost")
	v.SetDefault("console.refresh_interval", 5*time.Second)
	v.SetDefault("console.toast_duration", 3*time.Second)
	v.SetDefault("console.timezone", "Local")
	v.SetDefault("console.events_per_second", 10)
	v.SetDefault("console.event_burst", 20)
	v.SetDefault("console.clipboard", "none")

	v.SetDefault("keystore.backend", "file")
	v.SetDefault("keystore.path", "console-store.json")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.namespace", RedisNamespace)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("metrics.enabled", true)
}

// ResolveBaseURL выбирает адрес API так же, как это делала браузерная страница:
// для локального хоста dev-сервер, для остальных прод.
func (a APIConfig) ResolveBaseURL(host string) string {
	if a.BaseURL != "" {
		return strings.TrimRight(a.BaseURL, "/")
	}
	if IsLoopbackHost(host) {
		return strings.TrimRight(a.DevURL, "/")
	}
	return strings.TrimRight(a.ProdURL, "/")
}

// IsLoopbackHost проверяет localhost, 127.0.0.1 и ::1 (порт допускается).
func IsLoopbackHost(host string) bool {
	h := strings.TrimSpace(host)
	if hostOnly, _, err := net.SplitHostPort(h); err == nil {
		h = hostOnly
	}
	h = strings.Trim(h, "[]")
	switch strings.ToLower(h) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
