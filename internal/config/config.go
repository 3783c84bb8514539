package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort   int    `mapstructure:"APP_PORT"`
	MongoURI  string `mapstructure:"MONGO_URI"`
	MongoDB   string `mapstructure:"MONGO_DB"`
	RedisAddr string `mapstructure:"REDIS_ADDR"`

	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`

	// Bootstrap values for the settings service; once settings exist in Redis
	// these are no longer consulted.
	InitialSystemPrompt string `mapstructure:"INITIAL_SYSTEM_PROMPT"`
	MainModel           string `mapstructure:"MAIN_MODEL"`
	SupportModel        string `mapstructure:"SUPPORT_MODEL"`
	TranscribeModel     string `mapstructure:"TRANSCRIBE_MODEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "muse")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("INITIAL_SYSTEM_PROMPT",
		"You are Merlin AI, a helpful, witty, and supportive assistant on the Muse platform. "+
			"You are always up to date, never break character, and your name is Merlin AI. "+
			"If asked about your abilities or origin, mention Muse and that you are powered by advanced AI.")
	viper.SetDefault("MAIN_MODEL", "gpt-4o")
	viper.SetDefault("SUPPORT_MODEL", "gpt-4o-mini")
	viper.SetDefault("TRANSCRIBE_MODEL", "whisper-1")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
