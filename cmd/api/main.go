package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nexhr/nexhr-backend-go/internal/config"
	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
	appHTTP "github.com/nexhr/nexhr-backend-go/internal/handler/http"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/database"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/events"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/jwt"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/mailbox"
	"github.com/nexhr/nexhr-backend-go/internal/repository/postgresql"
	leaveService "github.com/nexhr/nexhr-backend-go/internal/service/leave"
	notificationService "github.com/nexhr/nexhr-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		fmt.Println("Error connecting to Redis:", err)
		return
	}

	directory := notification.DefaultDirectory()
	if cfg.Notification.DirectoryFile != "" {
		directory, err = notification.LoadDirectory(cfg.Notification.DirectoryFile)
		if err != nil {
			fmt.Println("Error loading routing directory:", err)
			return
		}
	}

	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	matcher := notification.SubstringMatcher{}
	hub := events.NewHub(matcher)
	box := mailbox.New(rdb, matcher, logger)
	targetBuilder := notification.NewBuilder(directory)

	notificationSvc := notificationService.NewService(notificationRepo, hub, box, matcher, logger)
	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}
	leaveSvc := leaveService.NewService(leaveRequestRepo, employeeRepo, targetBuilder, notificationSvc, txRunner, logger)

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(JWTService, leaveHandler, notificationHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
