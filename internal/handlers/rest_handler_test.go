package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatline/internal/errs"
	"chatline/internal/models"

	"github.com/gin-gonic/gin"
)

func TestSignupAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", models.SignupRequestBody{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder, response := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequestBody{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	login, ok := response.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected login payload, got %T", response.Data)
	}
	token, _ := login["token"].(string)
	if token == "" {
		t.Fatal("Expected a token in the login response")
	}

	// The issued token must be accepted by the authorized group.
	recorder, _ = doRequest(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 with issued token, got %d", recorder.Code)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, db := newTestRouter(t)
	seedAccount(t, db, "taken", "password123")

	recorder, response := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", models.SignupRequestBody{
		UserName: "someoneelse",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", recorder.Code)
	}
	if len(response.Errors) == 0 || response.Errors[0] != errs.ErrEmailAlreadyExists.Error() {
		t.Errorf("Expected %q, got %v", errs.ErrEmailAlreadyExists.Error(), response.Errors)
	}
}

func TestSignupValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", models.SignupRequestBody{
		UserName: "bob",
		Email:    "not-an-email",
		Password: "password123",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid email, got %d", recorder.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequestBody{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown email, got %d", recorder.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, db := newTestRouter(t)
	seedAccount(t, db, "carol", "password123")

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequestBody{
		Email:    "carol@example.com",
		Password: "wrong-password",
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", recorder.Code)
	}
}

func TestVerifyOtp(t *testing.T) {
	router, db := newTestRouter(t)

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", models.SignupRequestBody{
		UserName: "dave",
		Email:    "dave@example.com",
		Password: "password123",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", recorder.Code)
	}

	var user models.User
	if err := db.Where("email = ?", "dave@example.com").First(&user).Error; err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if user.OtpCode == nil {
		t.Fatal("Expected an OTP code after signup")
	}

	recorder, _ = doRequest(t, router, http.MethodPost, "/api/v1/auth/verify-otp", "", models.VerifyOtpRequestBody{
		Email: "dave@example.com",
		Code:  "000000",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for wrong code, got %d", recorder.Code)
	}

	recorder, _ = doRequest(t, router, http.MethodPost, "/api/v1/auth/verify-otp", "", models.VerifyOtpRequestBody{
		Email: "dave@example.com",
		Code:  *user.OtpCode,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if err := db.First(&user, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if !user.IsVerified {
		t.Error("Expected user to be verified")
	}
	if user.OtpCode != nil {
		t.Error("Expected OTP code to be cleared after verification")
	}
}

func TestCreateConversationFindOrCreate(t *testing.T) {
	router, db := newTestRouter(t)
	_, aliceToken := seedAccount(t, db, "convalice", "password123")
	bob, bobToken := seedAccount(t, db, "convbob", "password123")

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", aliceToken, models.CreateConversationRequestBody{
		UserID: bob.ID,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for new conversation, got %d: %s", recorder.Code, recorder.Body.String())
	}

	// The same pair resolves to the existing conversation, from either side.
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", aliceToken, models.CreateConversationRequestBody{
		UserID: bob.ID,
	})
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 for existing conversation, got %d", recorder.Code)
	}

	var alice models.User
	if err := db.Where("user_name = ?", "convalice").First(&alice).Error; err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", bobToken, models.CreateConversationRequestBody{
		UserID: alice.ID,
	})
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 from the other side, got %d", recorder.Code)
	}
}

func TestCreateConversationWithSelf(t *testing.T) {
	router, db := newTestRouter(t)
	user, token := seedAccount(t, db, "selfchat", "password123")

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", token, models.CreateConversationRequestBody{
		UserID: user.ID,
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for self conversation, got %d", recorder.Code)
	}
}

func TestSendMessageRequiresContentOrMedia(t *testing.T) {
	router, db := newTestRouter(t)
	_, aliceToken := seedAccount(t, db, "msgalice", "password123")
	bob, _ := seedAccount(t, db, "msgbob", "password123")

	_, response := doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", aliceToken, models.CreateConversationRequestBody{
		UserID: bob.ID,
	})
	conversation := response.Data.(map[string]any)
	conversationID := uint(conversation["id"].(float64))

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/messages/send", aliceToken, models.SendMessageRequestBody{
		ConversationID: conversationID,
		Content:        "   ",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank message, got %d", recorder.Code)
	}
}

func TestSendAndReadMessage(t *testing.T) {
	router, db := newTestRouter(t)
	_, aliceToken := seedAccount(t, db, "readalice", "password123")
	bob, bobToken := seedAccount(t, db, "readbob", "password123")

	_, response := doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", aliceToken, models.CreateConversationRequestBody{
		UserID: bob.ID,
	})
	conversation := response.Data.(map[string]any)
	conversationID := uint(conversation["id"].(float64))

	recorder, response := doRequest(t, router, http.MethodPost, "/api/v1/messages/send", aliceToken, models.SendMessageRequestBody{
		ConversationID: conversationID,
		Content:        "hello bob",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	message := response.Data.(map[string]any)
	messageID := uint(message["id"].(float64))

	recorder, response = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/messages/%d/read", messageID), bobToken, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	readMessage := response.Data.(map[string]any)
	readBy, _ := readMessage["read_by"].([]any)
	if len(readBy) != 1 || uint(readBy[0].(float64)) != bob.ID {
		t.Errorf("Expected read_by [%d], got %v", bob.ID, readBy)
	}

	// Marking again stays idempotent.
	recorder, response = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/messages/%d/read", messageID), bobToken, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200 on repeat, got %d", recorder.Code)
	}
	readMessage = response.Data.(map[string]any)
	readBy, _ = readMessage["read_by"].([]any)
	if len(readBy) != 1 {
		t.Errorf("Expected a single reader after repeat, got %v", readBy)
	}

	recorder, _ = doRequest(t, router, http.MethodPost, "/api/v1/messages/999999/read", bobToken, nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing message, got %d", recorder.Code)
	}
}

func TestGetMessagesRequiresMembership(t *testing.T) {
	router, db := newTestRouter(t)
	_, aliceToken := seedAccount(t, db, "memalice", "password123")
	bob, _ := seedAccount(t, db, "membob", "password123")
	_, eveToken := seedAccount(t, db, "memeve", "password123")

	_, response := doRequest(t, router, http.MethodPost, "/api/v1/conversations/create", aliceToken, models.CreateConversationRequestBody{
		UserID: bob.ID,
	})
	conversation := response.Data.(map[string]any)
	conversationID := uint(conversation["id"].(float64))

	path := fmt.Sprintf("/api/v1/conversations/%d/messages", conversationID)
	recorder, _ := doRequest(t, router, http.MethodGet, path, aliceToken, nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected 200 for member, got %d", recorder.Code)
	}

	recorder, _ = doRequest(t, router, http.MethodGet, path, eveToken, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-member, got %d", recorder.Code)
	}
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	router, db := newTestRouter(t)
	_, token := seedAccount(t, db, "searchme", "password123")
	seedAccount(t, db, "searchother", "password123")

	recorder, response := doRequest(t, router, http.MethodGet, "/api/v1/users?query=search", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	users, ok := response.Data.([]any)
	if !ok {
		t.Fatalf("Expected user list, got %T", response.Data)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(users))
	}
	if users[0].(map[string]any)["user_name"] != "searchother" {
		t.Errorf("Expected searchother, got %v", users[0])
	}
}

func TestContacts(t *testing.T) {
	router, db := newTestRouter(t)
	_, token := seedAccount(t, db, "contactowner", "password123")
	friend, _ := seedAccount(t, db, "contactfriend", "password123")

	recorder, _ := doRequest(t, router, http.MethodPost, "/api/v1/users/contacts", token, models.AddContactRequestBody{
		UserID: friend.ID,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder, response := doRequest(t, router, http.MethodGet, "/api/v1/users/contacts", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}
	contacts, ok := response.Data.([]any)
	if !ok || len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %v", response.Data)
	}
	if contacts[0].(map[string]any)["user_name"] != "contactfriend" {
		t.Errorf("Expected contactfriend, got %v", contacts[0])
	}
}

func TestUploadFile(t *testing.T) {
	router, db := newTestRouter(t)
	_, token := seedAccount(t, db, "uploader", "password123")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response models.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	data := response.Data.(map[string]any)
	url, _ := data["url"].(string)
	if !strings.Contains(url, "test-bucket") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected upload url %q", url)
	}
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	gin.SetMode(gin.TestMode)
	status, responseErrs := statusForErrors([]error{fmt.Errorf("pq: connection refused")})
	if status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", status)
	}
	if len(responseErrs) != 1 || responseErrs[0] != error(errs.ErrInternal) {
		t.Errorf("Expected the generic internal error, got %v", responseErrs)
	}
}
