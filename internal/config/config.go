package config

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

type Config struct {
	ListenAddr    string        `hcl:"listen_addr" env:"LISTEN_ADDR" default:"127.0.0.1:3456"`
	DatabasePath  string        `hcl:"database_path" env:"DATABASE_PATH" default:"linkhub.db"`
	OpenAIKey     string        `hcl:"openai_key" env:"OPENAI_KEY"`
	OpenAIBaseURL string        `hcl:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `hcl:"openai_model" env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AITimeout     time.Duration `hcl:"ai_timeout" env:"AI_TIMEOUT" default:"1m"`
}

var (
	cfg  Config
	once sync.Once
)

func Get() Config {
	once.Do(func() {
		loader := aconfig.LoaderFor(&cfg, aconfig.Config{
			EnvPrefix: "LINKHUB",
			Files:     []string{"./config.hcl", "$HOME/.config/linkhub/config.hcl"},
			FileDecoders: map[string]aconfig.FileDecoder{
				".hcl": aconfighcl.New(),
			},
		})

		if err := loader.Load(); err != nil {
			slog.Error("failed to load config", "err", err)
		}
	})

	return cfg
}
