package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "TODO"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Worker   WorkerConfig   `yaml:"worker"`
	Client   ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimitRPM   int           `yaml:"rate_limit_rpm"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type StorageConfig struct {
	Type string `yaml:"type"` // inmemory, jsonfile, sqlite или postgres
	Path string `yaml:"path"` // файл для jsonfile и sqlite
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type WorkerConfig struct {
	StatsInterval time.Duration `yaml:"stats_interval"`
}

type ClientConfig struct {
	BaseURL string `yaml:"base_url"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "",
			Port:           "8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 15 * time.Second,
			RateLimitRPM:   100,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 1,
			IdleTimeout:    5 * time.Minute,
		},
		Storage: StorageConfig{
			Type: "inmemory",
			Path: "data/todos.json",
		},
		Logging: LoggingConfig{
			Development: true,
		},
		Worker: WorkerConfig{
			StatsInterval: 30 * time.Second,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
		},
	}
}

// Load читает YAML поверх значений по умолчанию, затем применяет
// переменные окружения TODO_*. Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}
	return nil
}

// applyEnv переопределяет поля значениями TODO_<SECTION>_<KEY>,
// например TODO_SERVER_PORT или TODO_STORAGE_TYPE.
func (c *Config) applyEnv() {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, dst := range map[string]*string{
		"server.host":     &c.Server.Host,
		"server.port":     &c.Server.Port,
		"database.url":    &c.Database.URL,
		"storage.type":    &c.Storage.Type,
		"storage.path":    &c.Storage.Path,
		"client.base_url": &c.Client.BaseURL,
	} {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	for key, dst := range map[string]*int{
		"server.rate_limit_rpm":    &c.Server.RateLimitRPM,
		"database.max_connections": &c.Database.MaxConnections,
		"database.min_connections": &c.Database.MinConnections,
	} {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	for key, dst := range map[string]*time.Duration{
		"server.read_timeout":    &c.Server.ReadTimeout,
		"server.write_timeout":   &c.Server.WriteTimeout,
		"server.request_timeout": &c.Server.RequestTimeout,
		"database.idle_timeout":  &c.Database.IdleTimeout,
		"worker.stats_interval":  &c.Worker.StatsInterval,
	} {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}

	if v.IsSet("logging.development") {
		c.Logging.Development = v.GetBool("logging.development")
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "inmemory":
	case "jsonfile", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path обязателен для %s", c.Storage.Type)
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url обязателен для postgres")
		}
	default:
		return fmt.Errorf("неизвестный storage.type %q", c.Storage.Type)
	}

	if c.Server.Port == "" {
		return errors.New("server.port не задан")
	}
	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database.min_connections (%d) больше max_connections (%d)",
			c.Database.MinConnections, c.Database.MaxConnections)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
