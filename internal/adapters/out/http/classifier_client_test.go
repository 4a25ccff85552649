package httpout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolCallResponse(t *testing.T, args map[string]any) []byte {
	t.Helper()
	argJSON, err := json.Marshal(args)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"message": map[string]any{
				"tool_calls": []map[string]any{{
					"function": map[string]any{
						"name":      "itemize_clothing",
						"arguments": string(argJSON),
					},
				}},
			},
		}},
	})
	require.NoError(t, err)
	return body
}

func fullArgs() map[string]any {
	return map[string]any{
		"Description": "Faded black band tee with cracked front print",
		"Gender":      "Men's",
		"Category":    "Tops",
		"Subcategory": "T-shirts",
		"Brand":       "Hanes",
		"Condition":   "Used - Good",
		"Size":        "L",
		"Color":       "Black",
		"Source":      "Stitched",
		"Age":         "90s",
		"Style":       []string{"Vintage", "Grunge"},
	}
}

func TestClassify(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write(toolCallResponse(t, fullArgs()))
	}))
	defer srv.Close()

	c := NewClassifierClient(srv.URL, "test-key", "gpt-4o")
	attrs, err := c.Classify(context.Background(), []string{"https://img.test/a.jpeg", "https://img.test/b.jpeg"})
	require.NoError(t, err)

	assert.Equal(t, "Hanes", attrs.Brand)
	assert.Equal(t, "Tops", attrs.Category)
	assert.Equal(t, []string{"Vintage", "Grunge"}, attrs.Style)

	// request carries the model, both image urls and the tool schema
	assert.Equal(t, "gpt-4o", captured["model"])
	assert.NotNil(t, captured["tools"])
	msgs, _ := json.Marshal(captured["messages"])
	assert.Contains(t, string(msgs), "https://img.test/a.jpeg")
	assert.Contains(t, string(msgs), "https://img.test/b.jpeg")
}

func TestClassifyNoImages(t *testing.T) {
	c := NewClassifierClient("http://classifier.test", "test-key", "")
	_, err := c.Classify(context.Background(), nil)
	require.ErrorIs(t, err, ErrClassifierNoImages)
}

func TestClassifyNoToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"content": "I cannot classify this."},
			}},
		})
	}))
	defer srv.Close()

	c := NewClassifierClient(srv.URL, "test-key", "")
	_, err := c.Classify(context.Background(), []string{"https://img.test/a.jpeg"})
	require.ErrorIs(t, err, ErrClassifierInvalidResponse)
}

func TestClassifyIncompleteAttributes(t *testing.T) {
	args := fullArgs()
	delete(args, "Brand")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(toolCallResponse(t, args))
	}))
	defer srv.Close()

	c := NewClassifierClient(srv.URL, "test-key", "")
	_, err := c.Classify(context.Background(), []string{"https://img.test/a.jpeg"})
	require.ErrorIs(t, err, ErrClassifierInvalidResponse)
}

func TestClassifyAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded"},
		})
	}))
	defer srv.Close()

	c := NewClassifierClient(srv.URL, "test-key", "")
	_, err := c.Classify(context.Background(), []string{"https://img.test/a.jpeg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestExtractKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"content": "vintage, nike, hoodie , "},
			}},
		})
	}))
	defer srv.Close()

	c := NewClassifierClient(srv.URL, "test-key", "")
	keywords, err := c.ExtractKeywords(context.Background(), "cozy vintage nike hoodie")
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage", "nike", "hoodie"}, keywords)
}

func TestExtractKeywordsEmptyQuery(t *testing.T) {
	c := NewClassifierClient("http://classifier.test", "test-key", "")
	_, err := c.ExtractKeywords(context.Background(), "  ")
	require.Error(t, err)
}
