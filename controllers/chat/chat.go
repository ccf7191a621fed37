package chatControllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/client"
	"github.com/Prannav-7/electrostore-client-sub000/config"
	"github.com/Prannav-7/electrostore-client-sub000/models"
)

const systemPrompt = "You are the support assistant for ElectroStore, an online shop for " +
	"electrical and hardware goods. Answer briefly and only about the store: products, " +
	"orders, shipping, payments (COD, UPI, card) and returns."

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/chat
// Forwards the message to the configured LLM; when the key is missing or the
// call fails, the rule-based fallback answers instead.
func ChatHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	llm := client.New(cfg.OpenAIAPIURL, nil)

	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "message is required"})
			return
		}

		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(string)

		reply, source := answer(c.Request.Context(), llm, cfg, req.Message)

		record := models.ChatMessage{
			UserID:    userID,
			Message:   req.Message,
			Reply:     reply,
			Source:    source,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("⚠️ Failed to store chat transcript: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"reply":  reply,
			"source": source,
		}})
	}
}

func answer(ctx context.Context, llm *client.Client, cfg *config.Config, message string) (string, string) {
	if cfg.ChatbotEnabled() {
		reply, err := askLLM(ctx, llm, cfg, message)
		if err == nil {
			return reply, "llm"
		}
		log.Printf("⚠️ LLM call failed, using fallback: %v", err)
	}
	return fallbackReply(message), "fallback"
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func askLLM(ctx context.Context, llm *client.Client, cfg *config.Config, message string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.OpenAIAPIKey)

	body := chatCompletionRequest{
		Model: cfg.OpenAIModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	}

	resp, err := llm.Do(ctx, http.MethodPost, "", body, &client.RequestOptions{
		Retry:  2,
		Header: header,
	})
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(resp.Body, &completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", errors.New(completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(completion.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// fallbackRules are checked in order; the first keyword hit wins.
var fallbackRules = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi ", "hey"}, "Hello! Welcome to ElectroStore. How can I help you today?"},
	{[]string{"order", "track", "delivery status"}, "You can track your orders under My Orders after logging in. Orders move from pending to confirmed, processing, shipped and delivered."},
	{[]string{"payment", "pay", "upi", "card", "cod", "cash"}, "We accept Cash on Delivery, UPI and cards/wallets via Razorpay. Your payment method is chosen at checkout."},
	{[]string{"ship", "deliver"}, "We offer free shipping on all orders. Most orders are delivered within 3-5 business days."},
	{[]string{"return", "refund", "cancel"}, "Orders can be cancelled before shipping from My Orders. For returns and refunds, contact support with your order number."},
	{[]string{"product", "stock", "price", "wire", "switch", "cable", "light"}, "You can browse our full catalog of electrical and hardware products on the products page, with search and category filters."},
	{[]string{"contact", "support", "help"}, "You can reach our support team at support@electrostore.com. We reply within one business day."},
}

// fallbackReply is the keyword-matching bot used when the LLM is
// unavailable.
func fallbackReply(message string) string {
	lower := " " + strings.ToLower(message) + " "
	for _, rule := range fallbackRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.reply
			}
		}
	}
	return "I'm sorry, I didn't catch that. You can ask me about products, orders, shipping, payments or returns."
}
