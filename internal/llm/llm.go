// Package llm 抽象单轮文本生成模型。
package llm

import (
	"context"
	"errors"
)

// Generator 以单条 prompt 调用生成模型并返回原始文本，不保留会话状态。
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse 表示模型没有返回任何文本。
var ErrEmptyResponse = errors.New("model returned empty response")

// GeneratorFunc 让普通函数满足 Generator。
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
