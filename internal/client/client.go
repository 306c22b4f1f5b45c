// Package client is the REST client for the chat API, shared by the
// notification engine and the chat view.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"unigo/pkg/errors"
)

type MentorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ParticipantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type LastMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Chat struct {
	ID           string               `json:"id"`
	Mentor       MentorSummary        `json:"mentor"`
	Participants []ParticipantSummary `json:"participants"`
	LastMessage  *LastMessage         `json:"last_message,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorInfo      `json:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GetOrCreateChat(ctx context.Context, mentorID, participantID string) (*Chat, error) {
	body := map[string]string{
		"mentor_id":      mentorID,
		"participant_id": participantID,
	}

	var chat Chat
	if err := c.do(ctx, http.MethodPost, "/v1/chats", body, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.do(ctx, http.MethodGet, "/v1/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *Client) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	var messages []Message
	if err := c.do(ctx, http.MethodGet, "/v1/chats/"+chatID+"/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	body := map[string]string{"text": text}

	var message Message
	if err := c.do(ctx, http.MethodPost, "/v1/chats/"+chatID+"/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/chats/"+chatID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("Failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Internal("Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Internal("Request failed", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Internal(fmt.Sprintf("Failed to decode response (status %d)", resp.StatusCode), err)
	}

	if !env.Success {
		code := "INTERNAL_ERROR"
		message := "Request failed"
		if env.Error != nil {
			code = env.Error.Code
			message = env.Error.Message
		}
		return errors.New(code, message, resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Internal("Failed to decode response data", err)
	}

	return nil
}
