package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ADRIANPANEL/Web-order-adrian/internal/entity"
	"github.com/ADRIANPANEL/Web-order-adrian/internal/usecase"
)

const defaultAPIBase = "https://api.telegram.org"

// AttachmentOpener yields the stored proof blob for an order.
type AttachmentOpener interface {
	Open(ref string) (io.ReadCloser, error)
}

// Telegram forwards new orders to a single configured chat via the Bot API:
// sendPhoto (multipart) when the order carries a proof, sendMessage (JSON)
// otherwise.
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
	files   AttachmentOpener
	loc     *time.Location
}

func NewTelegram(token, chatID string, timeout time.Duration, files AttachmentOpener) *Telegram {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}
	return &Telegram{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: timeout},
		files:   files,
		loc:     loc,
	}
}

// WithAPIBase overrides the Bot API endpoint (tests).
func (t *Telegram) WithAPIBase(base string) *Telegram {
	t.apiBase = base
	return t
}

func (t *Telegram) Notify(ctx context.Context, o entity.Order) error {
	caption := t.caption(o)
	if o.Proof != nil {
		return t.sendPhoto(ctx, *o.Proof, caption)
	}
	return t.sendMessage(ctx, caption)
}

func (t *Telegram) caption(o entity.Order) string {
	note := o.Note
	if note == "" {
		note = "-"
	}
	return fmt.Sprintf(
		"📦 *Order Baru*\nNama: %s\nProduk: %s\nPembayaran: %s\nWaktu: %s\nStatus: %s\nCatatan: %s",
		o.Name, o.Product, o.Payment,
		o.Time.In(t.loc).Format("02/01/2006 15.04.05"),
		o.Status, note,
	)
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiBase+"/bot"+t.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req)
}

func (t *Telegram) sendPhoto(ctx context.Context, ref, caption string) error {
	blob, err := t.files.Open(ref)
	if err != nil {
		return fmt.Errorf("open proof %s: %w", ref, err)
	}
	defer blob.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"chat_id":    t.chatID,
		"caption":    caption,
		"parse_mode": "Markdown",
	} {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("photo", ref)
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := io.Copy(part, blob); err != nil {
		return fmt.Errorf("copy proof: %w", err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiBase+"/bot"+t.token+"/sendPhoto", &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return t.do(req)
}

func (t *Telegram) do(req *http.Request) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, body)
	}
	return nil
}

var _ usecase.Notifier = (*Telegram)(nil)
