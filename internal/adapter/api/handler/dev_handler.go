package handler

import (
	"github.com/labstack/echo/v4"

	"unigo/internal/usecase"
	"unigo/pkg/response"
)

type DevHandler struct {
	chatUseCase *usecase.ChatUseCase
	batchSize   int
}

func NewDevHandler(chatUseCase *usecase.ChatUseCase, batchSize int) *DevHandler {
	return &DevHandler{
		chatUseCase: chatUseCase,
		batchSize:   batchSize,
	}
}

// SweepOrphans removes messages left behind by a delete that failed between
// the message cascade and the chat deletion.
func (h *DevHandler) SweepOrphans(c echo.Context) error {
	deleted, err := h.chatUseCase.SweepOrphanedMessages(c.Request().Context(), h.batchSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"deleted": deleted})
}
