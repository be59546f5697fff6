package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AuthAddr string
}

// NewConfig читает адрес сервиса auth из файла; AUTH_ADDR в окружении важнее.
// Пустой адрес означает работу без проверки токенов.
func NewConfig(path string) (*Config, error) {
	values, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read auth config %s: %w", path, err)
	}
	cfg := &Config{AuthAddr: values["AUTH_ADDR"]}
	if addr := os.Getenv("AUTH_ADDR"); addr != "" {
		cfg.AuthAddr = addr
	}
	return cfg, nil
}
