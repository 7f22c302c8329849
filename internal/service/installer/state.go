package installer

// InstallState collects the answers of the wizard. Field tags name the
// variables written to the runtime .env file; empty fields are left out so
// the config defaults keep applying.
type InstallState struct {
	GeneratorProvider string `env:"LEXBOT_GENERATOR_PROVIDER"`
	GeneratorURL      string `env:"LEXBOT_GENERATOR_URL"`
	GeneratorAPIKey   string `env:"LEXBOT_GENERATOR_API_KEY"`
	GeneratorModel    string `env:"LEXBOT_GENERATOR_MODEL"`

	EmbeddingProvider string `env:"LEXBOT_EMBEDDING_PROVIDER"`
	EmbeddingURL      string `env:"LEXBOT_EMBEDDING_URL"`
	EmbeddingAPIKey   string `env:"LEXBOT_EMBEDDING_API_KEY"`
	EmbeddingModel    string `env:"LEXBOT_EMBEDDING_MODEL"`

	// "true" or "false"; a bool would be dropped when false
	EnableHTTP     string `env:"LEXBOT_ENABLE_HTTP"`
	HTTPAddr       string `env:"LEXBOT_HTTP_ADDR"`
	EnableTelegram string `env:"LEXBOT_ENABLE_TELEGRAM"`

	TelegramToken        string `env:"LEXBOT_TELEGRAM_TOKEN"`
	TelegramAllowedUsers string `env:"LEXBOT_TELEGRAM_ALLOWED_USERS"`
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

func (s *InstallState) telegramEnabled() bool {
	return s.EnableTelegram == "true"
}

func (s *InstallState) httpEnabled() bool {
	return s.EnableHTTP == "true"
}
