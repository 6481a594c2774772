package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClassifier talks to any OpenAI-compatible chat endpoint.
type OpenAIClassifier struct {
	modelName string
	client    *openai.Client
}

func NewOpenAIClassifier(apiKey, baseURL, modelName string) *OpenAIClassifier {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClassifier{
		modelName: modelName,
		client:    openai.NewClientWithConfig(config),
	}
}

func (c *OpenAIClassifier) ClassifyTrip(ctx context.Context, tripContext string, projectCodes []string, history []string) (*model.TripSuggestion, error) {
	sysPrompt := model.ClassifierSystemPrompt
	if len(history) > 0 {
		var b strings.Builder
		b.WriteString("\n\nEarlier classified trips by the same driver:\n")
		for _, h := range history {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
		sysPrompt += b.String()
	}

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{Role: openai.ChatMessageRoleUser, Content: tripContext},
		},
		Tools: []openai.Tool{
			GenerateClassifyTripTool(projectCodes),
		},
		ToolChoice: openai.ToolChoice{
			Type: openai.ToolTypeFunction,
			Function: openai.ToolFunction{
				Name: "classify_trip",
			},
		},
		// Low temperature keeps the tool arguments stable.
		Temperature: 0.1,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("classifier returned no tool call")
	}

	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	var suggestion model.TripSuggestion
	if err := json.Unmarshal([]byte(args), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse classifier output: %w", err)
	}

	if suggestion.TripType != model.TripTypeBusiness && suggestion.TripType != model.TripTypePrivate {
		return nil, fmt.Errorf("classifier returned unknown trip type %q", suggestion.TripType)
	}

	return &suggestion, nil
}
