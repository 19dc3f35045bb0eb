package intent

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	response *schema.Message
	err      error
	messages []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.messages = input
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func (m *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func toolCallResponse(arguments string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: recognizeToolName, Arguments: arguments}},
		},
	}
}

func TestToolOracleRecognize(t *testing.T) {
	t.Parallel()
	cm := &fakeChatModel{response: toolCallResponse(
		`{"intent":"ChooseTypeOfFood","score":0.92,"entities":[{"type":"ChooseTypeOfFood","value":"Chinese"}]}`,
	)}
	oracle, err := NewToolOracle(cm)
	if err != nil {
		t.Fatalf("create oracle: %v", err)
	}

	result, err := oracle.Recognize(context.Background(), "I want Chinese food")
	if err != nil {
		t.Fatalf("recognize failed: %v", err)
	}
	if result.TopIntent.Label != ChooseTypeOfFood || result.TopIntent.Score != 0.92 {
		t.Errorf("unexpected top intent: %+v", result.TopIntent)
	}
	if !result.Matches(ChooseTypeOfFood) {
		t.Error("expected a confident match")
	}
	value, ok := result.Entity(ChooseTypeOfFood)
	if !ok || value != "Chinese" {
		t.Errorf("expected entity Chinese, got %q (ok=%v)", value, ok)
	}
	if len(cm.messages) != 2 || cm.messages[1].Content != "I want Chinese food" {
		t.Errorf("utterance must be the user message, got %+v", cm.messages)
	}
}

func TestToolOracleNoToolCall(t *testing.T) {
	t.Parallel()
	cm := &fakeChatModel{response: &schema.Message{Role: schema.Assistant, Content: "sorry"}}
	oracle, err := NewToolOracle(cm)
	if err != nil {
		t.Fatalf("create oracle: %v", err)
	}
	if _, err := oracle.Recognize(context.Background(), "hi"); err == nil {
		t.Fatal("expected error when the model skips the tool call")
	}
}

func TestResultMatchesThreshold(t *testing.T) {
	t.Parallel()
	low := &Result{TopIntent: TopIntent{Label: FindLocalisation, Score: 0.3}}
	if low.Matches(FindLocalisation) {
		t.Error("score below threshold must not match")
	}
	none := &Result{TopIntent: TopIntent{Label: None, Score: 0.99}}
	if none.Matches(ChooseTypeOfFood) {
		t.Error("wrong label must not match")
	}
}

func TestResultEntityAbsent(t *testing.T) {
	t.Parallel()
	// A matching intent with no entities is a mismatch for callers.
	r := &Result{TopIntent: TopIntent{Label: ChooseTypeOfFood, Score: 0.9}}
	if _, ok := r.Entity(ChooseTypeOfFood); ok {
		t.Error("empty entity list must report absence")
	}
	r = &Result{
		TopIntent: TopIntent{Label: ChooseTypeOfFood, Score: 0.9},
		Entities:  []Entity{{Type: FindLocalisation, Value: "Paris"}},
	}
	if _, ok := r.Entity(ChooseTypeOfFood); ok {
		t.Error("entity of another type must not match")
	}
}

func TestToolOracleLive(t *testing.T) {
	if os.Getenv("FOODBOT_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FOODBOT_RUN_LIVE_TESTS=1 to run live LLM tests")
	}
	ctx := context.Background()
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   "gpt-4o",
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	if err != nil {
		t.Fatalf("create chat model: %v", err)
	}
	oracle, err := NewToolOracle(cm)
	if err != nil {
		t.Fatalf("create oracle: %v", err)
	}
	result, err := oracle.Recognize(ctx, "I would love some Chinese food tonight")
	if err != nil {
		t.Fatalf("recognize failed: %v", err)
	}
	t.Logf("live result: %+v", result)
	if result.TopIntent.Label != ChooseTypeOfFood {
		t.Errorf("expected ChooseTypeOfFood, got %q", result.TopIntent.Label)
	}
}
