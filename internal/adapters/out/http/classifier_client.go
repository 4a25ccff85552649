// internal/adapters/out/http/classifier_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	itemdom "drip/internal/domain/item"
)

var (
	ErrClassifierNoImages        = errors.New("classifier: no image urls")
	ErrClassifierInvalidResponse = errors.New("classifier: invalid response")
)

const classifierToolName = "itemize_clothing"

// ClassifierClient calls an OpenAI-compatible chat-completions endpoint with
// a function/tool schema and maps the tool-call arguments to typed item
// attributes. One remote call per classification, no retries.
type ClassifierClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClassifierClient builds the client.
// baseURL example: https://api.openai.com/v1 (the /chat/completions path is
// appended here).
func NewClassifierClient(baseURL, apiKey, model string) *ClassifierClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	model = strings.TrimSpace(model)
	if model == "" {
		model = "gpt-4o"
	}
	return &ClassifierClient{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Classify implements usecase.Classifier.
func (c *ClassifierClient) Classify(ctx context.Context, imageURLs []string) (itemdom.Attributes, error) {
	if c == nil || c.baseURL == "" {
		return itemdom.Attributes{}, errors.New("classifier: client is not configured")
	}
	if len(imageURLs) == 0 {
		return itemdom.Attributes{}, ErrClassifierNoImages
	}

	content := []map[string]any{
		{"type": "text", "text": "Analyze these images and provide details about the clothing item."},
	}
	for _, u := range imageURLs {
		content = append(content, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": u},
		})
	}

	body := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role": "system",
				"content": []map[string]any{
					{"type": "text", "text": "You are a bot that helps the user label clothing to sell."},
				},
			},
			{"role": "user", "content": content},
		},
		"tools": []map[string]any{
			{"type": "function", "function": classifierToolSchema()},
		},
	}

	data, err := c.post(ctx, body)
	if err != nil {
		return itemdom.Attributes{}, err
	}

	args, err := firstToolCallArguments(data)
	if err != nil {
		return itemdom.Attributes{}, err
	}

	var attrs itemdom.Attributes
	if err := json.Unmarshal([]byte(args), &attrs); err != nil {
		return itemdom.Attributes{}, fmt.Errorf("%w: decode arguments: %v", ErrClassifierInvalidResponse, err)
	}
	if err := attrs.Validate(); err != nil {
		return itemdom.Attributes{}, fmt.Errorf("%w: missing required attribute", ErrClassifierInvalidResponse)
	}
	return attrs, nil
}

// ExtractKeywords implements usecase.KeywordExtractor.
func (c *ClassifierClient) ExtractKeywords(ctx context.Context, query string) ([]string, error) {
	if c == nil || c.baseURL == "" {
		return nil, errors.New("classifier: client is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("classifier: query is empty")
	}

	body := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{
				"role":    "user",
				"content": fmt.Sprintf("Extract concise keywords from the following search query, comma separated: %q", query),
			},
		},
		"temperature": 0.0,
	}

	data, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || len(resp.Choices) == 0 {
		return nil, ErrClassifierInvalidResponse
	}

	parts := strings.Split(resp.Choices[0].Message.Content, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, ErrClassifierInvalidResponse
	}
	return keywords, nil
}

func (c *ClassifierClient) post(ctx context.Context, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("classifier: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier: request: %w", err)
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		if msg := apiErrorMessage(data); msg != "" {
			return nil, fmt.Errorf("classifier: api error: %s", msg)
		}
		return nil, fmt.Errorf("classifier: request failed status=%d", res.StatusCode)
	}
	return data, nil
}

func firstToolCallArguments(data []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				ToolCalls []struct {
					Function struct {
						Name      string `json:"name"`
						Arguments string `json:"arguments"`
					} `json:"function"`
				} `json:"tool_calls"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierInvalidResponse, err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return "", fmt.Errorf("%w: no tool call", ErrClassifierInvalidResponse)
	}
	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if strings.TrimSpace(args) == "" {
		return "", fmt.Errorf("%w: empty arguments", ErrClassifierInvalidResponse)
	}
	return args, nil
}

func apiErrorMessage(data []byte) string {
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return ""
	}
	return strings.TrimSpace(resp.Error.Message)
}

// classifierToolSchema is the fixed attribute schema; every field is
// required, and the enums pin the taxonomy the catalog filters on.
func classifierToolSchema() map[string]any {
	return map[string]any{
		"name":        classifierToolName,
		"description": "Describe the item of clothing from the image focusing on unique and identifying attributes. Any graphics, writing, logos, and defining characteristics must be included. Use keywords that users would associate with the item. This should be about 3-4 sentences.",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"Description": map[string]any{"type": "string", "description": "A brief but detailed, SEO-friendly description of the clothing item"},
				"Gender":      map[string]any{"type": "string", "enum": []string{"Men's", "Women's"}},
				"Category":    map[string]any{"type": "string", "enum": []string{"Tops", "Bottoms", "Outerwear", "Dresses", "Swimwear", "Shoes", "Accessories"}},
				"Subcategory": map[string]any{"type": "string", "enum": []string{
					"T-shirts", "Dress shirts", "Polo shirts", "Tank tops", "Blouses",
					"Hoodies", "Sweatshirts", "Sweaters", "Cardigans", "Pullovers",
					"Jeans", "Casual trousers", "Dress trousers", "Shorts", "Skirts",
					"Jackets", "Coats", "Blazers", "Vests",
					"Casual dresses", "Formal dresses", "Sundresses",
					"Bikinis", "One-pieces", "Cover-ups",
					"Sneakers", "Boots", "Dress shoes", "Heels", "Flats",
					"Hats", "Belts", "Scarves", "Jewelry", "Bags", "Sunglasses", "Watches",
				}},
				"Brand":     map[string]any{"type": "string"},
				"Condition": map[string]any{"type": "string", "enum": []string{"Brand new", "Used - Excellent", "Used - Good", "Used - Fair"}},
				"Size": map[string]any{"type": "string", "enum": []string{
					"XS", "S", "M", "L", "XL", "XXL",
					"28", "30", "32", "34", "36", "38", "40",
					"6", "7", "8", "9", "10", "11", "12", "13",
				}},
				"Color":  map[string]any{"type": "string", "enum": []string{"Black", "White", "Gray", "Navy", "Blue", "Red", "Green", "Yellow", "Pink", "Purple", "Orange", "Brown", "Beige", "Cream", "Gold", "Silver", "Tie-Dye"}},
				"Source": map[string]any{"type": "string", "enum": []string{"Stitched", "Printed", "No Tag"}},
				"Age":    map[string]any{"type": "string", "enum": []string{"Modern", "Y2K", "90s", "80s", "70s", "60s", "50s", "Antique"}},
				"Style": map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []string{
					"Streetwear", "Sportswear", "Loungewear", "Formal", "Casual", "Vintage",
					"Preppy", "Gothic", "Punk", "Retro", "Minimalist", "Grunge",
					"Classic", "Edgy", "Athleisure", "Glamorous", "Elegant", "Trendy",
					"Alternative", "Artistic", "Business",
					"Hip-hop", "Indie", "Skater",
				}}},
			},
			"required": []string{"Description", "Gender", "Category", "Subcategory", "Brand", "Condition", "Size", "Color", "Source", "Age", "Style"},
		},
	}
}
