package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/metrics"
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrMissingAPIKey = errors.New("missing gemini api key")
	ErrUpstream      = errors.New("upstream model request failed")
)

// Reply sources.
const (
	ChatSourceLLM      = "llm"
	ChatSourceFallback = "fallback"
)

const (
	systemPrompt = "You are a helpful AI assistant for a platform called BizEase. BizEase helps entrepreneurs in India, " +
		"specifically in Delhi, to start and manage their businesses. You should provide concise, helpful, and accurate " +
		"information related to business registration, licenses, government schemes, and compliance in India. Always be " +
		"friendly and professional. When providing links, make sure they are valid and relevant government or official websites."
	greeting = "Hello! I am the BizEase AI Assistant. I'm ready to help you with your business-related questions. How can I assist you today?"

	maxMessageLength = 2000
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatReply struct {
	Response string `json:"response"`
	Source   string `json:"source,omitempty"`
}

type ChatService struct {
	config  config.ChatConfig
	client  *http.Client
	metrics *metrics.Metrics
	log     *logrus.Entry
}

func NewChatService(cfg config.ChatConfig, m *metrics.Metrics) *ChatService {
	return &ChatService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		metrics: m,
		log:     logrus.WithField("component", "chat"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Answer asks the hosted model first and falls back to the keyword table
// when the model is unavailable.
func (s *ChatService) Answer(ctx context.Context, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if len(message) > maxMessageLength {
		message = message[:maxMessageLength]
	}

	text, err := s.generate(ctx, message)
	if err == nil {
		s.metrics.ChatAnswered(ChatSourceLLM)
		return &ChatReply{Response: text, Source: ChatSourceLLM}, nil
	}

	s.log.WithError(err).Warn("LLM request failed")
	if answer, ok := FallbackAnswer(message); ok {
		s.metrics.ChatAnswered(ChatSourceFallback)
		return &ChatReply{Response: answer, Source: ChatSourceFallback}, nil
	}
	s.metrics.ChatAnswered("error")
	return nil, err
}

func (s *ChatService) generate(ctx context.Context, message string) (string, error) {
	if s.config.GeminiAPIKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: systemPrompt}}},
			{Role: "model", Parts: []geminiPart{{Text: greeting}}},
			{Role: "user", Parts: []geminiPart{{Text: message}}},
		},
	}
	reqBody.GenerationConfig.MaxOutputTokens = s.config.MaxOutputTokens

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(s.config.BaseURL, "/"), s.config.Model)

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
			}
		}

		text, retry, err := s.call(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		s.log.WithError(err).WithField("attempt", attempt+1).Debug("Gemini call failed")
		if !retry {
			break
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

// call performs one generateContent request. The bool reports whether the
// failure is worth retrying.
func (s *ChatService) call(ctx context.Context, endpoint string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.config.GeminiAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", true, err
	}
	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	for _, c := range parsed.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", false, errors.New("empty response from model")
	}
	return sb.String(), false, nil
}

type fallbackEntry struct {
	pattern *regexp.Regexp
	answer  string
}

func kw(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + alternatives + `)`)
}

// Checked in order.
var fallbackTable = []fallbackEntry{
	{kw(`gst\b`), "GST registration is mandatory when annual turnover exceeds ₹40 lakh (₹20 lakh for services) or when you sell online across states. Apply at https://www.gst.gov.in with your PAN, Aadhaar, address proof and bank details. It usually takes 3 to 7 days."},
	{kw(`pan\b|permanent account`), "A PAN is the base tax identity for any business. Apply online at https://www.onlineservices.nsdl.com with identity and address proof. Processing takes 7 to 15 days."},
	{kw(`fssai|food licen[cs]e`), "Any food business needs an FSSAI licence or registration. Apply at https://foscos.fssai.gov.in with a premises layout, food safety plan and ID proof. Expect 30 to 60 days."},
	{kw(`trade licen[cs]e`), "A trade licence from the Municipal Corporation of Delhi is required to operate commercially in Delhi. Apply at https://mcdonline.nic.in with property documents and a NOC from the owner."},
	{kw(`shops?( and)? establishment`), "Shops and commercial establishments with a physical premises in Delhi must register under the Delhi Shops and Establishments Act at https://labour.delhi.gov.in."},
	{kw(`fire (safety|noc|certificate)`), "Premises with employees or public access need a Fire Safety Certificate from the Delhi Fire Service. Apply at https://dfs.delhigovt.nic.in with building plans and fire equipment details."},
	{kw(`udyam|msme`), "Udyam registration gives micro, small and medium enterprises access to priority lending, subsidies and government tenders. It is free and Aadhaar based at https://udyamregistration.gov.in."},
	{kw(`start-?up`), "Startup India recognition brings tax holidays under Section 80-IAC, easier compliance and funding support. Register at https://www.startupindia.gov.in with your incorporation certificate and a short pitch."},
	{kw(`incorporat|private limited|pvt\.? ltd`), "A private limited company is incorporated through the SPICe+ form on the MCA portal at https://www.mca.gov.in. You need DSCs for directors, name approval and the MOA/AOA. It takes about 10 to 15 days."},
	{kw(`digilocker`), "BizEase uses DigiLocker to verify your identity and fetch your Aadhaar details securely. Sign in with your Aadhaar-linked mobile number at https://www.digilocker.gov.in."},
	{kw(`e-?card|e card`), "Your Business E-Card is issued once every checklist item is complete. It carries a QR code that anyone can scan to verify your registration for one year."},
	{kw(`scheme|subsid|loan`), "Popular schemes include Udyam/MSME benefits, PMEGP, Startup India, CGTMSE collateral-free loans and the Delhi Startup Policy. Open the Schemes page to see the ones that match your business."},
}

// FallbackAnswer returns the canned answer for the first keyword found in
// message.
func FallbackAnswer(message string) (string, bool) {
	for _, e := range fallbackTable {
		if e.pattern.MatchString(message) {
			return e.answer, true
		}
	}
	return "", false
}
