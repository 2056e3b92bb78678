package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	TelnetPort string `yaml:"telnet-port" env:"TELNET_PORT" env-default:"8080"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8081"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`

	MaxClients int `yaml:"max-clients" env:"MAX_CLIENTS" env-default:"100"`
	MaxGames   int `yaml:"max-games" env:"MAX_GAMES" env-default:"50"`

	Redis Redis `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// GetRedisAddr returns host:port, or an empty string when redis is not configured.
func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
