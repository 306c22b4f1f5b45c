package router

import (
	"github.com/labstack/echo/v4"

	"unigo/internal/adapter/api/handler"
	"unigo/internal/adapter/api/middleware"
)

// SetupChatRouter wires the chat endpoints. Every route requires a verified
// bearer token.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.GetOrCreateChat)   // POST /v1/chats - get or create chat with a participant
	chatGroup.GET("", chatHandler.GetUserChats)       // GET /v1/chats - caller's chats, newest-active first
	chatGroup.DELETE("/:id", chatHandler.DeleteChat)  // DELETE /v1/chats/:id - delete chat and its messages

	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages) // GET /v1/chats/:id/messages - ascending history
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)    // POST /v1/chats/:id/messages - send message
}
