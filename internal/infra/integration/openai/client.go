package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

var ErrEmptyCompletion = errors.New("openai returned an empty completion")

type Client struct {
	api   sdk.Client
	model string
}

func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		api:   sdk.NewClient(opts...),
		model: model,
	}
}

func (c *Client) ConvertRules(ctx context.Context, description string) ([]entity.SegmentRule, error) {
	content, err := c.complete(ctx, rulesSystemPrompt, rulesPrompt(description), 0.3, true)
	if err != nil {
		return nil, err
	}

	var result struct {
		Rules []entity.SegmentRule `json:"rules"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if result.Rules == nil {
		return nil, errors.New("invalid response format: missing rules")
	}

	if n := len(result.Rules); n > 0 {
		result.Rules[n-1].Connector = ""
	}
	return result.Rules, nil
}

func (c *Client) GenerateMessages(ctx context.Context, objective, audience string) ([]entity.MessageVariant, error) {
	content, err := c.complete(ctx, messagesSystemPrompt, messagesPrompt(objective, audience), 0.7, true)
	if err != nil {
		return nil, err
	}

	var result struct {
		Messages []entity.MessageVariant `json:"messages"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if len(result.Messages) == 0 {
		return nil, errors.New("invalid response format: missing messages")
	}
	return result.Messages, nil
}

func (c *Client) SummarizeCampaign(ctx context.Context, r entity.CampaignReport) (string, error) {
	prompt := insightsPrompt(string(r.CampaignType), r.AudienceSize, r.Sent, r.Delivered, r.Failed, r.DeliveryRate())
	return c.complete(ctx, insightsSystemPrompt, prompt, 0.5, false)
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64, jsonOutput bool) (string, error) {
	params := sdk.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(system),
			sdk.UserMessage(user),
		},
		Temperature: sdk.Float(temperature),
	}
	if jsonOutput {
		params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
