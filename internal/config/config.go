package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	AllowedOrigins []string

	LLMProvider     string
	LLMModel        string
	LLMBaseURL      string
	GoogleApiKey    string
	MistralApiKey   string
	AnthropicApiKey string

	DBDriver   string
	DBDSN      string
	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgName     string
	SQLitePath string
}

// NewConfig читает env-файл; переменные окружения имеют приоритет.
// Отсутствующий файл не ошибка.
func NewConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.BindEnv("google_api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("mistral_api_key", "MISTRAL_API_KEY")
	v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")

	return &Config{
		AppEnv:          v.GetString("app_env"),
		HTTPAddr:        v.GetString("http_addr"),
		AllowedOrigins:  splitList(v.GetString("allowed_origins")),
		LLMProvider:     strings.ToLower(v.GetString("llm_provider")),
		LLMModel:        v.GetString("llm_model"),
		LLMBaseURL:      v.GetString("llm_base_url"),
		GoogleApiKey:    v.GetString("google_api_key"),
		MistralApiKey:   v.GetString("mistral_api_key"),
		AnthropicApiKey: v.GetString("anthropic_api_key"),
		DBDriver:        v.GetString("db_driver"),
		DBDSN:           v.GetString("db_dsn"),
		PgHost:          v.GetString("pg_host"),
		PgPort:          v.GetString("pg_port"),
		PgUser:          v.GetString("pg_user"),
		PgPassword:      v.GetString("pg_password"),
		PgName:          v.GetString("pg_name"),
		SQLitePath:      v.GetString("sqlite_path"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "local")
	v.SetDefault("http_addr", ":5641")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("llm_provider", completion.ProviderGemini)
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("pg_host", "localhost")
	v.SetDefault("pg_port", "5432")
	v.SetDefault("sqlite_path", "hackwoo.db")
}

// Completion возвращает настройки выбранного провайдера
func (c *Config) Completion() completion.Config {
	cfg := completion.Config{
		Provider: c.LLMProvider,
		Model:    c.LLMModel,
		BaseURL:  c.LLMBaseURL,
	}
	switch c.LLMProvider {
	case completion.ProviderMistral:
		cfg.APIKey = c.MistralApiKey
	case completion.ProviderAnthropic:
		cfg.APIKey = c.AnthropicApiKey
	default:
		cfg.APIKey = c.GoogleApiKey
	}
	return cfg
}

// DSN возвращает строку подключения для DBDriver
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PgHost, c.PgPort, c.PgUser, c.PgPassword, c.PgName)
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
