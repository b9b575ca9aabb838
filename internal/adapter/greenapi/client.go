package greenapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"avtobot/internal/app/config"
	"avtobot/internal/platform/logger"
)

// Client is a thin REST adapter over the Green API HTTP surface. Only the
// methods the bot actually uses are wrapped.
type Client struct {
	baseURL    string
	idInstance string
	token      string
	http       *http.Client
	media      *http.Client
	log        logger.Logger
}

func NewClient(cfg config.GreenAPIConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		idInstance: cfg.IDInstance,
		token:      cfg.APIToken,
		// Polling uses long requests, so the request timeout must exceed
		// the server-side receiveTimeout.
		http:  &http.Client{Timeout: cfg.PollTimeout + 10*time.Second},
		media: &http.Client{Timeout: cfg.MediaTimeout},
		log:   log,
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/waInstance%s/%s/%s", c.baseURL, c.idInstance, method, c.token)
}

func (c *Client) postJSON(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(raw))
	}
	return nil
}

// SendMessage sends a plain-text reply.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	return c.postJSON(ctx, "sendMessage", map[string]string{
		"chatId":  chatID,
		"message": text,
	})
}

// SendButtons sends an interactive reply-buttons message.
func (c *Client) SendButtons(ctx context.Context, chatID, header, body, footer string, buttons []Button) error {
	return c.postJSON(ctx, "sendInteractiveButtonsReply", map[string]interface{}{
		"chatId":  chatID,
		"header":  header,
		"body":    body,
		"footer":  footer,
		"buttons": buttons,
	})
}

// SendFileByURL attaches a remotely stored file (e.g. a MinIO object URL).
func (c *Client) SendFileByURL(ctx context.Context, chatID, fileURL, fileName, caption string) error {
	return c.postJSON(ctx, "sendFileByUrl", map[string]string{
		"chatId":   chatID,
		"urlFile":  fileURL,
		"fileName": fileName,
		"caption":  caption,
	})
}

// SendFileByUpload attaches a locally stored file.
func (c *Client) SendFileByUpload(ctx context.Context, chatID, filePath, caption string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chatId", chatID); err != nil {
		return fmt.Errorf("failed to write chatId field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendFileByUpload"), &buf)
	if err != nil {
		return fmt.Errorf("failed to build sendFileByUpload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.media.Do(req)
	if err != nil {
		return fmt.Errorf("sendFileByUpload request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendFileByUpload returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// ReceiveNotification long-polls for the next chat event. Returns nil when
// the queue is empty.
func (c *Client) ReceiveNotification(ctx context.Context, timeout time.Duration) (*Receipt, error) {
	url := c.methodURL("receiveNotification") + "?receiveTimeout=" + strconv.Itoa(int(timeout.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build receiveNotification request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("receiveNotification request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("receiveNotification returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read receiveNotification body: %w", err)
	}
	// An empty queue comes back as the literal null.
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	return &receipt, nil
}

// DeleteNotification acks a polled notification so it is not redelivered.
func (c *Client) DeleteNotification(ctx context.Context, receiptID int64) error {
	url := c.methodURL("deleteNotification") + "/" + strconv.FormatInt(receiptID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build deleteNotification request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deleteNotification request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("deleteNotification returned status %d", resp.StatusCode)
	}
	return nil
}

// DownloadMedia fetches an attachment by its downloadUrl.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	resp, err := c.media.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("media download returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %w", err)
	}
	return data, nil
}
