package handler

import (
	"github.com/labstack/echo/v4"

	"unigo/internal/usecase"
	"unigo/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type getOrCreateChatRequest struct {
	MentorID      string `json:"mentor_id" validate:"required"`
	ParticipantID string `json:"participant_id" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// GetOrCreateChat returns the chat between the caller and the participant in
// the given mentor context, creating it on first contact.
func (h *ChatHandler) GetOrCreateChat(c echo.Context) error {
	var req getOrCreateChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.GetOrCreateChat(c.Request().Context(), userID, usecase.GetOrCreateChatInput{
		MentorID:      req.MentorID,
		ParticipantID: req.ParticipantID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// GetUserChats lists the caller's chats, most recently active first.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// GetChatMessages returns the full message history in ascending time order.
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage appends a message to the chat.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID: chatID,
		Text:   req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// DeleteChat deletes a chat and all of its messages.
func (h *ChatHandler) DeleteChat(c echo.Context) error {
	chatID := c.Param("id")
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteChat(c.Request().Context(), userID, chatID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Chat deleted successfully"})
}
