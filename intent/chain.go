package intent

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type promptBuilder func(ctx context.Context, utterance string) ([]*schema.Message, error)

// chain forces the chat model to answer through a single tool call and
// decodes the call arguments into TOutput.
type chain[TOutput any] struct {
	build     promptBuilder
	chatModel model.ToolCallingChatModel
	toolInfo  *schema.ToolInfo
}

func newChain[TOutput any](
	chatModel model.ToolCallingChatModel,
	build promptBuilder,
	toolName string,
	toolDesc string,
) (*chain[TOutput], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &chain[TOutput]{
		build:     build,
		chatModel: chatModel,
		toolInfo:  toolInfo,
	}, nil
}

func (c *chain[TOutput]) invoke(ctx context.Context, utterance string) (*TOutput, error) {
	messages, err := c.build(ctx, utterance)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	response, err := c.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{c.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, c.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no ToolCall found in model response: %s", response.Content)
	}

	var result TOutput
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &result); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}
	return &result, nil
}
