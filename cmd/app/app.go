package app

import (
	"context"
	"log"
	"sync"

	"chatline/configs"
	"chatline/internal/handlers"
	"chatline/internal/hub"
	"chatline/internal/repositories"
	"chatline/internal/servers/database"
	"chatline/internal/servers/http"
	"chatline/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	ctx     context.Context
	redis   *redis.Client
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.configs = configs.GetConfig()
	app.initializeRedis()

	db := database.GetDB(app.configs)

	authRepo := repositories.NewAuthenticationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	emailService := services.NewEmailService(app.configs)
	authService := services.NewAuthenticationService(authRepo, emailService, app.configs)
	userService := services.NewUserService(userRepo)

	socketHub := hub.NewHub()
	relay := services.NewRelayService(app.ctx, socketHub, app.redis)
	relay.Start()

	chatService := services.NewChatService(chatRepo, userRepo, relay)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(
		minioService,
		app.configs.Viper.GetString("minio.bucket"),
	)

	restHandler := handlers.NewRestHandler(
		authService,
		userService,
		chatService,
		fileManagerService,
	)
	socketHandler := handlers.NewSocketHandler(relay, authService, chatService, userService)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketHandler,
	).Run()
}

// initializeRedis is optional: with no address configured the relay runs in
// single-node mode and delivers straight to the local hub.
func (app *App) initializeRedis() {
	addr := configs.GetConfig().Viper.GetString("redis.addr")
	if addr == "" {
		log.Println("No redis address configured, running in single-node mode")
		return
	}
	app.redis = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}
