package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"chatline/configs"
	_ "chatline/docs"
	"chatline/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			restHandler:   restHandler,
			socketHandler: socketHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.router = gin.Default()
	hs.setupRoutes()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) setupRoutes() {
	api := hs.router.Group("/api/v1")

	api.POST("/auth/signup", hs.restHandler.Signup)
	api.POST("/auth/verify-otp", hs.restHandler.VerifyOtp)
	api.POST("/auth/login", hs.restHandler.Login)

	authorized := api.Group("", hs.restHandler.MustAuthenticateMiddleware())
	authorized.GET("/users", hs.restHandler.SearchUsers)
	authorized.GET("/users/me", hs.restHandler.GetProfile)
	authorized.GET("/users/contacts", hs.restHandler.GetContacts)
	authorized.POST("/users/contacts", hs.restHandler.AddContact)
	authorized.GET("/conversations", hs.restHandler.GetConversations)
	authorized.POST("/conversations/create", hs.restHandler.CreateConversation)
	authorized.GET("/conversations/:id/messages", hs.restHandler.GetConversationMessages)
	authorized.POST("/messages/send", hs.restHandler.SendMessage)
	authorized.POST("/messages/:id/read", hs.restHandler.MarkMessageRead)
	authorized.POST("/files/upload", hs.restHandler.UploadFile)

	// Socket route authenticates inside the handler so browser clients can
	// pass the token as a query parameter.
	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)

	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
