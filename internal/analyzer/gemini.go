package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const classifyInstruction = `Eres un catalogador de contenido de manhwa/webtoon.
Recibes el texto de un mensaje y un nombre de archivo, y devuelves SOLO un objeto JSON:
{"titulo": "...", "tipo": "capitulo|extra|ilustracion|pack|desconocido", "capitulo": n|null, "confianza": 0.0-1.0}
Usa "Desconocido" como titulo cuando no puedas determinarlo.
Marca confianza alta (>0.8) solo si estas muy seguro del titulo.`

// GeminiConfig for the Gemini-backed generator.
type GeminiConfig struct {
	APIKey     string
	ModelName  string // Default: "gemini-2.0-flash-exp"
	MaxRetries int
	RetryDelay time.Duration
}

// GeminiClient wraps the Gemini API client behind the Generator contract.
// Classification runs against a JSON-mode model; descriptions use a plain
// text model from the same underlying client.
type GeminiClient struct {
	client        *genai.Client
	classifyModel *genai.GenerativeModel
	describeModel *genai.GenerativeModel
	logger        *zap.Logger
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// NewGeminiClient creates a new Gemini-backed generator.
func NewGeminiClient(cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.0-flash-exp" // Fast and free
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	classifyModel := client.GenerativeModel(cfg.ModelName)
	classifyModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classifyInstruction)},
	}
	classifyModel.ResponseMIMEType = "application/json"
	classifyModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.3), // Lower for consistent classification
		TopP:            genai.Ptr[float32](0.9),
		TopK:            genai.Ptr[int32](40),
		MaxOutputTokens: genai.Ptr[int32](500),
	}

	describeModel := client.GenerativeModel(cfg.ModelName)
	describeModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.5),
		MaxOutputTokens: genai.Ptr[int32](100),
	}

	logger.Info("Gemini client initialized",
		zap.String("model", cfg.ModelName),
		zap.Int("max_retries", cfg.MaxRetries))

	return &GeminiClient{
		client:        client,
		classifyModel: classifyModel,
		describeModel: describeModel,
		logger:        logger,
		modelName:     cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}, nil
}

// Close closes the Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ClassifyContent asks the model for the structured taxonomy of one content drop.
func (c *GeminiClient) ClassifyContent(ctx context.Context, messageText, filename string) (*AIResult, error) {
	prompt := fmt.Sprintf("TEXTO DEL MENSAJE: %q\nNOMBRE DE ARCHIVO: %q", messageText, filename)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying Gemini request",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries))
			time.Sleep(c.retryDelay)
		}

		raw, err := c.generate(ctx, c.classifyModel, prompt)
		if err != nil {
			lastErr = err
			c.logger.Error("Gemini API error", zap.Error(err), zap.Int("attempt", attempt+1))
			continue
		}

		cleanJSON := stripFences(raw)

		var result AIResult
		if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
			lastErr = fmt.Errorf("failed to parse gemini response: %w", err)
			c.logger.Error("Failed to parse JSON response",
				zap.Error(err),
				zap.String("original_response", raw),
				zap.String("cleaned_response", cleanJSON),
				zap.Int("attempt", attempt+1))
			continue
		}

		if result.Title == "" || result.Type == "" {
			lastErr = fmt.Errorf("incomplete classification from gemini")
			c.logger.Error("Incomplete classification", zap.String("response", cleanJSON), zap.Int("attempt", attempt+1))
			continue
		}

		c.logger.Debug("Successfully classified content",
			zap.String("title", result.Title),
			zap.Float64("confidence", result.Confidence),
			zap.Int("attempt", attempt+1))

		return &result, nil
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// DescribeContent produces a one-line catalog description.
func (c *GeminiClient) DescribeContent(ctx context.Context, title, kind string, chapter *int, provider string) (string, error) {
	chapterText := "N/A"
	if chapter != nil {
		chapterText = fmt.Sprintf("%d", *chapter)
	}

	prompt := fmt.Sprintf(`Genera una descripcion concisa para un aporte de manhwa:
TITULO: %s
TIPO: %s
CAPITULO: %s
PROVEEDOR: %s
Maximo 100 caracteres. Responde SOLO con la descripcion.`, title, kind, chapterText, provider)

	raw, err := c.generate(ctx, c.describeModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Ask answers a free-form question from a chat user.
func (c *GeminiClient) Ask(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`Eres el asistente de un bot de distribucion de manhwas.
Responde en espanol, de forma breve y directa.
PREGUNTA: %s`, question)

	raw, err := c.generate(ctx, c.describeModel, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}
	return string(textPart), nil
}

// stripFences removes markdown code blocks the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// GetModelInfo returns model information.
func (c *GeminiClient) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":    "gemini",
		"model":       c.modelName,
		"max_retries": c.maxRetries,
		"retry_delay": c.retryDelay.String(),
	}
}
