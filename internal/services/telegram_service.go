package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// TelegramService pushes dispatch notifications to technicians. All
// callers treat it as best-effort: a send failure is logged, never
// propagated into the primary operation.
type TelegramService struct {
	token   string
	baseURL string
	dryRun  bool
	client  *http.Client
}

func NewTelegramService(botToken string, dryRun bool) *TelegramService {
	return &TelegramService{
		token:   botToken,
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", botToken),
		dryRun:  dryRun,
		client:  &http.Client{},
	}
}

type tgResp struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || t.token == "" || chatID == 0 {
		log.Printf("[tg][skip] token or chatID empty (token? %v chatID=%d)", t != nil && t.token != "", chatID)
		return nil
	}
	if t.dryRun {
		log.Printf("[tg][dry-run] chatID=%d text=%q", chatID, text)
		return nil
	}
	body := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	b, _ := json.Marshal(body)
	url := t.baseURL + "/sendMessage"
	req, _ := http.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("[tg][send][err] http: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var api tgResp
	_ = json.Unmarshal(respBody, &api)
	if resp.StatusCode != 200 || !api.Ok {
		log.Printf("[tg][send][err] http_status=%d body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("telegram sendMessage failed: status=%d ok=%v desc=%s", resp.StatusCode, api.Ok, api.Description)
	}
	return nil
}
