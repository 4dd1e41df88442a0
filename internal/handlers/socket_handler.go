package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"chatline/internal/enums"
	"chatline/internal/errs"
	"chatline/internal/hub"
	"chatline/internal/models"
	socketModels "chatline/internal/models/socket"
	"chatline/internal/msgs"
	"chatline/internal/services"
	"chatline/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type SocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	relay       *services.RelayService
	authService *services.AuthenticationService
	chatService *services.ChatService
	userService *services.UserService
}

func NewSocketHandler(
	relay *services.RelayService,
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	userService *services.UserService,
) *SocketHandler {
	return &SocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:         relay.Hub(),
		relay:       relay,
		authService: authService,
		chatService: chatService,
		userService: userService,
	}
}

// HandleSocketRoute authenticates the request, upgrades it to a websocket
// and runs the event loop until the client disconnects.
func (sh *SocketHandler) HandleSocketRoute(ctx *gin.Context) {
	userInfo, err := sh.authorize(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  models.ErrorMessages([]error{errs.ErrUnauthorized}),
		})
		return
	}

	ws, err := sh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &hub.Client{Conn: ws, UserID: userInfo.ID}
	sh.hub.Register(client)
	if err := sh.userService.SetOnlineStatus(userInfo.ID, true); err != nil {
		log.Printf("Error setting user %v online: %v", userInfo.ID, err)
	}

	defer func() {
		sh.hub.Unregister(client)
		if err := sh.userService.SetOnlineStatus(userInfo.ID, false); err != nil {
			log.Printf("Error setting user %v offline: %v", userInfo.ID, err)
		}
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}()

	sh.handleIncomingEvents(ws, client, userInfo)
}

// authorize accepts the token from the Authorization header or, for browser
// websocket clients that cannot set headers, a token query parameter.
func (sh *SocketHandler) authorize(ctx *gin.Context) (*models.Claims, error) {
	jwtToken := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if jwtToken == "" {
		jwtToken = ctx.Query("token")
	}
	if jwtToken == "" {
		return nil, errs.ErrUnauthorized
	}
	return utils.VerifyToken(jwtToken, sh.authService.JwtKey())
}

func (sh *SocketHandler) handleIncomingEvents(ws *websocket.Conn, client *hub.Client, userInfo *models.Claims) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading socket event: %v", err)
			}
			return
		}

		switch event.Event {
		case enums.SOCKET_EVENT_JOIN_CONVERSATION:
			sh.handleJoin(client, userInfo, &event)
		case enums.SOCKET_EVENT_LEAVE_CONVERSATION:
			sh.hub.Leave(client, event.ConversationID)
		case enums.SOCKET_EVENT_TYPING_START, enums.SOCKET_EVENT_TYPING_STOP:
			sh.handleTyping(userInfo, &event)
		default:
			log.Printf("Unknown socket event: %v", event.Event)
		}
	}
}

// handleJoin verifies the conversation exists and the caller belongs to it
// before adding the connection to the room. Joining twice is a no-op.
func (sh *SocketHandler) handleJoin(client *hub.Client, userInfo *models.Claims, event *socketModels.SocketEvent) {
	conversationID := event.ConversationID
	if conversationID == 0 && len(event.Payload) > 0 {
		var payload socketModels.JoinConversationPayload
		if err := json.Unmarshal(event.Payload, &payload); err == nil {
			conversationID = payload.ConversationID
		}
	}
	if conversationID == 0 {
		return
	}
	if !sh.chatService.CheckUserInConversation(userInfo.ID, conversationID) {
		log.Printf("User %v rejected from conversation %v", userInfo.ID, conversationID)
		return
	}
	sh.hub.Join(client, conversationID)
}

// handleTyping relays the ephemeral indicator to the other room members.
// Typing events are never persisted.
func (sh *SocketHandler) handleTyping(userInfo *models.Claims, event *socketModels.SocketEvent) {
	if event.ConversationID == 0 {
		return
	}
	sh.relay.BroadcastTyping(event.Event, event.ConversationID, userInfo.ID, socketModels.TypingPayload{
		ConversationID: event.ConversationID,
		UserID:         userInfo.ID,
		UserName:       userInfo.UserName,
	})
}
