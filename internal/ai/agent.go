package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Answer is the analyst's structured reply.
type Answer struct {
	Answer     string   `json:"answer" jsonschema_description:"Direct answer to the question in plain prose"`
	Highlights []string `json:"highlights" jsonschema_description:"Up to five short supporting facts taken from the sales data"`
	Confidence float64  `json:"confidence" jsonschema_description:"Confidence between 0.0 and 1.0"`
}

// AnalystService answers administrator questions about sales.
type AnalystService interface {
	Ask(ctx context.Context, question, salesContext string) (*Answer, error)
}

// Analyst answers questions with the OpenAI Responses API and a strict JSON schema.
type Analyst struct {
	client *openai.Client
}

func NewAnalyst(apiKey string) *Analyst {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Analyst{client: &client}
}

func (a *Analyst) Ask(ctx context.Context, question, salesContext string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	prompt := fmt.Sprintf(`You are a sales analyst for a wholesale ordering portal.
Answer the administrator's question using ONLY the data below.
Rules:
1. Quote amounts in dollars with two decimals.
2. If the data does not contain the answer, say so and set confidence below 0.3.
3. Keep highlights short and factual.

Sales data:
%s

Question: %s`, salesContext, question)

	schemaMap, err := schemaMap(Answer{})
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "sales_answer",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An answer to a question about sales data"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var answer Answer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	answer.normalize()
	return &answer, nil
}

func (a *Answer) normalize() {
	if a.Confidence < 0 {
		a.Confidence = 0
	}
	if a.Confidence > 1 {
		a.Confidence = 1
	}
	if len(a.Highlights) > 5 {
		a.Highlights = a.Highlights[:5]
	}
	if a.Highlights == nil {
		a.Highlights = []string{}
	}
}
