package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"

	apperror "hospital/internal/errors"
	"hospital/internal/pkg/token"
)

// Config armazena todas as configurações do serviço, lidas do ambiente uma vez no startup.
type Config struct {
	// Geral
	Port        string `env:"PORT, default=8080"`
	Environment string `env:"ENV, default=development"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL string        `env:"DATABASE_URL, required"`
	DBTimeout   time.Duration `env:"DB_TIMEOUT, default=5s"`

	// Cache (Redis), usado pelo rate limiting do login
	RedisAddr            string        `env:"REDIS_ADDR, default=localhost:6379"`
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS, default=10"`
	RateLimitPeriod      time.Duration `env:"RATE_LIMIT_PERIOD, default=1m"`

	// Segurança (JWT)
	JWTSecret   string `env:"JWT_SECRET, required"`
	JWTIssuer   string `env:"JWT_ISSUER, required"`
	JWTAudience string `env:"JWT_AUDIENCE, required"`

	// Conta administrativa criada no startup, se ainda não existir
	BootstrapAdminName     string `env:"BOOTSTRAP_ADMIN_NAME"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load carrega as configurações das variáveis de ambiente do processo.
// Variável obrigatória ausente ou valor inválido resulta em ConfigurationError.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith carrega as configurações a partir de um Lookuper arbitrário (usado nos testes).
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, apperror.NewConfigurationError("falha ao carregar variáveis de ambiente", err)
	}
	return &cfg, nil
}

// TokenConfig projeta a seção JWT na configuração do token.Issuer.
func (c *Config) TokenConfig() token.Config {
	return token.Config{
		Secret:   c.JWTSecret,
		Issuer:   c.JWTIssuer,
		Audience: c.JWTAudience,
	}
}

// IsProduction informa se o serviço roda em produção.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
