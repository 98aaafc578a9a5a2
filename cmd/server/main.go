package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/snibank/snibank-backend/internal/adapter/http"
	"github.com/snibank/snibank-backend/internal/adapter/repository/memory"
	"github.com/snibank/snibank-backend/internal/adapter/repository/postgres"
	"github.com/snibank/snibank-backend/internal/domain"
	"github.com/snibank/snibank-backend/internal/usecase/account"
	"github.com/snibank/snibank-backend/internal/usecase/auth"
	"github.com/snibank/snibank-backend/internal/usecase/seeder"
	"github.com/snibank/snibank-backend/internal/usecase/transfer"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultBankName      = "SPYDERS NATIONAL BANK"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "snibank"
	defaultJWTSecret     = "dev-secret"
)

func main() {
	// 1. Pick the store backend and initialize repositories
	accountRepo, transactionRepo, transferRepo, credentialRepo := buildRepositories()

	// 2. Initialize Services (Use Cases)
	bankName := envOr("BANK_NAME", defaultBankName)
	jwtSecret := envOr("JWT_SECRET", defaultJWTSecret)

	accountService := account.NewAccountService(accountRepo, transactionRepo, bankName)
	transferService := transfer.NewTransferService(accountRepo, transferRepo)
	authService := auth.NewAuthService(accountRepo, credentialRepo, jwtSecret)

	// 3. Seed the admin credential (first boot only)
	credentialSeeder := seeder.NewCredentialSeeder(credentialRepo)
	ctx := context.Background()
	adminUsername := envOr("ADMIN_USERNAME", defaultAdminUsername)
	adminPassword := envOr("ADMIN_PASSWORD", defaultAdminPassword)
	if err := credentialSeeder.Seed(ctx, adminUsername, adminPassword); err != nil {
		log.Fatalf("Failed to seed admin credential: %v", err)
	}
	log.Println("Admin credential ready")

	// 4. Start HTTP Server
	addr := envOr("HTTP_ADDR", defaultHTTPAddr)
	server := httpadapter.NewServer(accountService, transferService, authService)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(httpServer)
}

// buildRepositories wires either the Postgres or the in-memory store,
// selected by STORE_BACKEND (postgres|memory, default postgres)
func buildRepositories() (domain.AccountRepository, domain.TransactionRepository, domain.TransferRepository, domain.CredentialRepository) {
	backend := envOr("STORE_BACKEND", "postgres")
	if backend == "memory" {
		store := memory.NewStore()
		return memory.NewAccountRepository(store),
			memory.NewTransactionRepository(store),
			memory.NewTransferRepository(store),
			memory.NewCredentialRepository(store)
	}

	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "snibank")

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return postgres.NewAccountRepository(db),
		postgres.NewTransactionRepository(db),
		postgres.NewTransferRepository(db),
		postgres.NewCredentialRepository(db)
}

// envOr reads an environment variable with a fallback
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
