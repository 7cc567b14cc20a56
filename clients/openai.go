package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// TextLabels is the vocabulary the OpenAI classifier answers in. It matches
// the text emotion service so both backends share one mapping table.
var TextLabels = []string{"joy", "anger", "sadness", "surprise", "fear", "disgust", "others"}

const textInstructions = `You label the emotion expressed in one utterance from a recorded interview.
The utterance may be Spanish or English.
Answer with the dominant emotion and a score between 0 and 1 for every label.
Use "others" when no emotion is clearly expressed.`

type labelScore struct {
	Label string  `json:"label" jsonschema:"enum=joy,enum=anger,enum=sadness,enum=surprise,enum=fear,enum=disgust,enum=others"`
	Score float64 `json:"score"`
}

type textEmotionResponse struct {
	Dominant string       `json:"dominant" jsonschema:"enum=joy,enum=anger,enum=sadness,enum=surprise,enum=fear,enum=disgust,enum=others"`
	Scores   []labelScore `json:"scores"`
}

var textEmotionSchema = GenerateSchema[textEmotionResponse]()

// OpenAIText classifies utterances with a model behind the Responses API.
type OpenAIText struct {
	client *openai.Client
	model  string
	// waits between attempts after a rate limit or a server error
	backoff []time.Duration
}

func NewOpenAIText(client *openai.Client, model string) *OpenAIText {
	return &OpenAIText{
		client:  client,
		model:   model,
		backoff: []time.Duration{5 * time.Second, 30 * time.Second},
	}
}

// WithBackoff replaces the retry waits; an empty list disables retries.
func (o *OpenAIText) WithBackoff(waits ...time.Duration) *OpenAIText {
	o.backoff = waits
	return o
}

func (o *OpenAIText) ClassifyText(ctx context.Context, text string) (string, map[string]float64, error) {
	if o.client == nil {
		return "", nil, errors.New("openai text: client is nil")
	}
	if o.model == "" {
		return "", nil, errors.New("openai text: model is empty")
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "TextEmotion",
			Schema:      textEmotionSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Utterance emotion JSON"),
			Type:        "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(300),
		Instructions:    openai.String(textInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := o.callWithRetry(ctx, params)
	if err != nil {
		return "", nil, err
	}

	var out textEmotionResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.OutputText())), &out); err != nil {
		return "", nil, fmt.Errorf("openai text decode: %w", err)
	}
	scores := make(map[string]float64, len(out.Scores))
	for _, s := range out.Scores {
		scores[s.Label] = s.Score
	}
	return out.Dominant, scores, nil
}

func (o *OpenAIText) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := o.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		if attempt >= len(o.backoff) || !(isRateLimitError(err) || isServerError(err)) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.backoff[attempt]):
		}
	}
}

func isRateLimitError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}

// GenerateSchema reflects T into a strict JSON schema: every object closed
// and every property required.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	b, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	closeObjects(m)
	return m
}

func closeObjects(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok && len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			schema["required"] = required
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				closeObjects(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		closeObjects(items)
	}
}
