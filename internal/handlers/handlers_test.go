package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"chatline/configs"
	"chatline/internal/hub"
	"chatline/internal/models"
	"chatline/internal/repositories"
	"chatline/internal/servers/database"
	"chatline/internal/services"
	"chatline/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJwtSecret = "handler-test-secret"

// memoryFileManager satisfies the storage interface without a minio backend.
type memoryFileManager struct {
	uploads []string
}

func (m *memoryFileManager) UploadFile(fileName string, file io.Reader, fileSize int64, contentType string, bucketName string) (string, error) {
	m.uploads = append(m.uploads, fileName)
	return fmt.Sprintf("http://files.local/%s/%s", bucketName, fileName), nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config := &configs.Config{Viper: viper.New()}
	config.Viper.Set("jwt.secret", testJwtSecret)
	config.Viper.Set("jwt.expiration_time", 3600)
	config.Viper.Set("otp.expiration_seconds", 180)

	authRepo := repositories.NewAuthenticationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	emailService := services.NewEmailService(config)
	authService := services.NewAuthenticationService(authRepo, emailService, config)
	userService := services.NewUserService(userRepo)
	relay := services.NewRelayService(context.Background(), hub.NewHub(), nil)
	chatService := services.NewChatService(chatRepo, userRepo, relay)
	fileManagerService := services.NewFileManagerService(&memoryFileManager{}, "test-bucket")

	restHandler := NewRestHandler(authService, userService, chatService, fileManagerService)

	router := gin.New()
	api := router.Group("/api/v1")

	api.POST("/auth/signup", restHandler.Signup)
	api.POST("/auth/verify-otp", restHandler.VerifyOtp)
	api.POST("/auth/login", restHandler.Login)

	authorized := api.Group("", restHandler.MustAuthenticateMiddleware())
	authorized.GET("/users", restHandler.SearchUsers)
	authorized.GET("/users/me", restHandler.GetProfile)
	authorized.GET("/users/contacts", restHandler.GetContacts)
	authorized.POST("/users/contacts", restHandler.AddContact)
	authorized.GET("/conversations", restHandler.GetConversations)
	authorized.POST("/conversations/create", restHandler.CreateConversation)
	authorized.GET("/conversations/:id/messages", restHandler.GetConversationMessages)
	authorized.POST("/messages/send", restHandler.SendMessage)
	authorized.POST("/messages/:id/read", restHandler.MarkMessageRead)
	authorized.POST("/files/upload", restHandler.UploadFile)

	return router, db
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, *models.Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var response models.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return recorder, &response
}

// seedAccount creates a user with a real password hash and returns it with a
// valid bearer token.
func seedAccount(t *testing.T, db *gorm.DB, userName, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		UserName:     userName,
		Email:        userName + "@example.com",
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	token, err := utils.CreateJwtToken(user.ID, user.Email, user.UserName, []byte(testJwtSecret), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return user, token
}
