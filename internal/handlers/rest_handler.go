package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"chatline/internal/errs"
	"chatline/internal/models"
	"chatline/internal/msgs"
	"chatline/internal/services"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	authService        *services.AuthenticationService
	userService        *services.UserService
	chatService        *services.ChatService
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	authService *services.AuthenticationService,
	userService *services.UserService,
	chatService *services.ChatService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		authService:        authService,
		userService:        userService,
		chatService:        chatService,
		fileManagerService: fileManagerService,
	}
}

// statusForErrors maps the first service error to an HTTP status. Unknown
// errors collapse to a generic 500 so persistence details never leak.
func statusForErrors(serviceErrs []error) (int, []error) {
	if len(serviceErrs) == 0 {
		return http.StatusInternalServerError, []error{errs.ErrInternal}
	}
	var domainErr errs.Error
	if !errors.As(serviceErrs[0], &domainErr) {
		log.Printf("Internal error: %v", serviceErrs[0])
		return http.StatusInternalServerError, []error{errs.ErrInternal}
	}
	switch domainErr {
	case errs.ErrUserNotFound, errs.ErrConversationNotFound, errs.ErrMessageNotFound:
		return http.StatusNotFound, serviceErrs
	case errs.ErrWrongPassword, errs.ErrUnauthorized, errs.ErrInvalidToken:
		return http.StatusUnauthorized, serviceErrs
	case errs.ErrEmailAlreadyExists, errs.ErrUserNameAlreadyExists:
		return http.StatusConflict, serviceErrs
	case errs.ErrInternal:
		return http.StatusInternalServerError, serviceErrs
	default:
		return http.StatusBadRequest, serviceErrs
	}
}

func abortWithErrors(ctx *gin.Context, serviceErrs []error) {
	status, responseErrs := statusForErrors(serviceErrs)
	ctx.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  models.ErrorMessages(responseErrs),
	})
}

func callerID(ctx *gin.Context) uint {
	return ctx.GetUint("user_id")
}

// Signup godoc
// @Summary      Create a new account
// @Description  Registers a user and emails a verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.SignupRequestBody  true  "Signup payload"
// @Success      201   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Failure      409   {object}  models.Response
// @Router       /auth/signup [post]
func (rh *RestHandler) Signup(ctx *gin.Context) {
	var signup models.SignupRequestBody
	if err := ctx.BindJSON(&signup); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	_, registerErrs := rh.authService.Register(&signup)
	if len(registerErrs) > 0 {
		abortWithErrors(ctx, registerErrs)
		return
	}

	ctx.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

// VerifyOtp godoc
// @Summary      Verify a signup passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyOtpRequestBody  true  "Verification payload"
// @Success      200   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Failure      404   {object}  models.Response
// @Router       /auth/verify-otp [post]
func (rh *RestHandler) VerifyOtp(ctx *gin.Context) {
	var body models.VerifyOtpRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	if verifyErrs := rh.authService.VerifyOtp(&body); len(verifyErrs) > 0 {
		abortWithErrors(ctx, verifyErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserVerifiedSuccessfully,
	})
}

// Login godoc
// @Summary      Login to an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequestBody  true  "Login payload"
// @Success      200   {object}  models.Response
// @Failure      401   {object}  models.Response
// @Failure      404   {object}  models.Response
// @Router       /auth/login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		log.Println("Error login data json binding:", err)
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	loginResponse, loginErrs := rh.authService.Login(&loginData)
	if len(loginErrs) > 0 {
		abortWithErrors(ctx, loginErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

func (rh *RestHandler) SearchUsers(ctx *gin.Context) {
	query := ctx.Query("query")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	users, searchErrs := rh.userService.SearchUsers(query, callerID(ctx), page)
	if len(searchErrs) > 0 {
		abortWithErrors(ctx, searchErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    users,
	})
}

func (rh *RestHandler) GetProfile(ctx *gin.Context) {
	profile, err := rh.authService.GetProfile(callerID(ctx))
	if err != nil {
		abortWithErrors(ctx, []error{err})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    profile,
	})
}

func (rh *RestHandler) AddContact(ctx *gin.Context) {
	var body models.AddContactRequestBody
	if err := ctx.BindJSON(&body); err != nil || body.UserID == 0 {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	if err := rh.userService.AddContact(callerID(ctx), body.UserID); err != nil {
		abortWithErrors(ctx, []error{err})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgContactAddedSuccessfully,
	})
}

func (rh *RestHandler) GetContacts(ctx *gin.Context) {
	contacts, err := rh.userService.GetContacts(callerID(ctx))
	if err != nil {
		abortWithErrors(ctx, []error{err})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    contacts,
	})
}

func (rh *RestHandler) GetConversations(ctx *gin.Context) {
	conversations, listErrs := rh.chatService.GetUserConversations(callerID(ctx))
	if len(listErrs) > 0 {
		abortWithErrors(ctx, listErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversations,
	})
}

// CreateConversation finds or creates the one-to-one conversation with the
// given user. 201 only when a new conversation was created.
func (rh *RestHandler) CreateConversation(ctx *gin.Context) {
	var body models.CreateConversationRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	conversation, created, createErrs := rh.chatService.FindOrCreateConversation(callerID(ctx), body.UserID)
	if len(createErrs) > 0 {
		abortWithErrors(ctx, createErrs)
		return
	}

	status := http.StatusOK
	message := msgs.MsgConversationFetched
	if created {
		status = http.StatusCreated
		message = msgs.MsgConversationCreated
	}

	ctx.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    conversation,
	})
}

func (rh *RestHandler) GetConversationMessages(ctx *gin.Context) {
	conversationID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || conversationID < 1 {
		abortWithErrors(ctx, []error{errs.ErrInvalidParams})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultMessagePageSize)))
	before, _ := strconv.Atoi(ctx.DefaultQuery("before", "0"))
	if before < 0 {
		before = 0
	}

	messages, listErrs := rh.chatService.GetMessages(callerID(ctx), uint(conversationID), limit, uint(before))
	if len(listErrs) > 0 {
		abortWithErrors(ctx, listErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

// SendMessage godoc
// @Summary      Send a chat message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendMessageRequestBody  true  "Message payload"
// @Success      201   {object}  models.Response
// @Failure      400   {object}  models.Response
// @Failure      404   {object}  models.Response
// @Router       /messages/send [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	var body models.SendMessageRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}

	message, sendErrs := rh.chatService.SendMessage(callerID(ctx), &body)
	if len(sendErrs) > 0 {
		abortWithErrors(ctx, sendErrs)
		return
	}

	ctx.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: msgs.MsgMessageSent,
		Data:    message,
	})
}

func (rh *RestHandler) MarkMessageRead(ctx *gin.Context) {
	messageID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || messageID < 1 {
		abortWithErrors(ctx, []error{errs.ErrInvalidParams})
		return
	}

	message, readErrs := rh.chatService.MarkRead(uint(messageID), callerID(ctx))
	if len(readErrs) > 0 {
		abortWithErrors(ctx, readErrs)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageMarkedAsRead,
		Data:    message,
	})
}

func (rh *RestHandler) UploadFile(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		abortWithErrors(ctx, []error{errs.ErrInvalidRequestBody})
		return
	}
	defer file.Close()

	fileName := fmt.Sprintf("%d-%d%s", callerID(ctx), time.Now().UnixNano(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")

	url, err := rh.fileManagerService.UploadChatMedia(fileName, file, header.Size, contentType)
	if err != nil {
		log.Printf("Error uploading file: %v", err)
		abortWithErrors(ctx, []error{errs.ErrInternal})
		return
	}

	ctx.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: msgs.MsgFileUploadedSuccessfully,
		Data:    gin.H{"url": url},
	})
}
