package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hospital/config"
	"hospital/internal/api/appointment"
	"hospital/internal/api/invoice"
	"hospital/internal/api/router"
	"hospital/internal/api/user"
	"hospital/internal/pkg/cache"
	"hospital/internal/pkg/database"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/token"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository"
	"hospital/internal/service/appointmentservice"
	"hospital/internal/service/authservice"
	"hospital/internal/service/invoiceservice"
)

func main() {
	// 0. Carregar variáveis de ambiente (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// Configuração de token inválida impede o startup, antes de abrir qualquer conexão.
	issuer, err := token.NewIssuer(cfg.TokenConfig())
	if err != nil {
		logg.Fatal("Configuração de token inválida.", err)
	}

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL via bun)
	sqldb, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	store := repository.NewStore(database.NewBunDB(sqldb), cfg.DBTimeout, logg)
	defer store.Close()
	logg.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) para o rate limiting do login
	cacheClient := cache.NewRedisClient(cfg.RedisAddr, logg)
	defer cacheClient.Close()

	// 3. Injeção de Dependências: Service -> Handler
	v := validation.New()

	authSvc := authservice.NewService(store, issuer, v, logg)
	appointmentSvc := appointmentservice.NewService(store, v, logg)
	invoiceSvc := invoiceservice.NewService(store, v, logg)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := authSvc.EnsureAdmin(bootCtx, cfg.BootstrapAdminName, cfg.BootstrapAdminPassword); err != nil {
		cancelBoot()
		logg.Fatal("Falha ao criar a conta administrativa inicial.", err)
	}
	cancelBoot()

	handler := router.NewRouter(router.Deps{
		UserHandler:          user.NewHandler(authSvc, logg),
		AppointmentHandler:   appointment.NewHandler(appointmentSvc, logg),
		InvoiceHandler:       invoice.NewHandler(invoiceSvc, logg),
		Verifier:             issuer,
		Cache:                cacheClient,
		Logger:               logg,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
	})

	// 4. Configuração e Início do Servidor
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		logg.Info("Servidor ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}

	logg.Info("Servidor encerrado com sucesso.", nil)
}
