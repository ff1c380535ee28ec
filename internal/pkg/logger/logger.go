package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// ZeroLogger é a implementação concreta da interface Logger sobre o zerolog,
// com saída JSON estruturada.
type ZeroLogger struct {
	z zerolog.Logger
}

// NewLogger cria e retorna uma nova instância do Logger escrevendo em stdout.
// Esta função é chamada no main.go.
func NewLogger(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter cria um Logger que escreve no writer informado.
func NewWithWriter(level string, w io.Writer) Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	z := zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &ZeroLogger{z: z}
}

// NewNop retorna um Logger que descarta tudo (usado nos testes).
func NewNop() Logger {
	return &ZeroLogger{z: zerolog.Nop()}
}

// parseLevel converte o nível textual; desconhecido ou vazio vira info.
func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.z.Error().Err(err).Msg(msg)
}

// Fatal registra o erro e encerra o processo (os.Exit(1)).
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.z.Fatal().Err(err).Msg(msg)
}
