package refiner

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeLLM struct {
	err     error
	reply   string
	systems []string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return user + ".", nil
}

func TestRefineStageOrder(t *testing.T) {
	llm := &fakeLLM{}
	r := New(Options{AddPunctuation: true, OptimizeResult: true}, llm)

	out := r.Refine(context.Background(), "hello there")
	if out != "hello there.." {
		t.Errorf("out = %q", out)
	}
	if len(llm.systems) != 2 {
		t.Fatalf("llm called %d times, want 2", len(llm.systems))
	}
	if !strings.Contains(llm.systems[0], "punctuation") {
		t.Error("first stage should be punctuation")
	}
	if !strings.Contains(llm.systems[1], "clean up") {
		t.Error("second stage should be optimize")
	}
}

func TestRefineLLMFailurePassesThrough(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	r := New(Options{AddPunctuation: true}, llm)

	if out := r.Refine(context.Background(), "unchanged"); out != "unchanged" {
		t.Errorf("out = %q, want unchanged", out)
	}
}

func TestRefineEmptyReplyPassesThrough(t *testing.T) {
	llm := &fakeLLM{reply: "   "}
	r := New(Options{OptimizeResult: true}, llm)

	if out := r.Refine(context.Background(), "keep me"); out != "keep me" {
		t.Errorf("out = %q, want keep me", out)
	}
}

func TestRefineNilLLM(t *testing.T) {
	r := New(Options{AddPunctuation: true, OptimizeResult: true}, nil)
	if out := r.Refine(context.Background(), "text"); out != "text" {
		t.Errorf("out = %q, want text", out)
	}
}

func TestRefineBlankInput(t *testing.T) {
	llm := &fakeLLM{}
	r := New(Options{AddPunctuation: true}, llm)

	if out := r.Refine(context.Background(), "  "); out != "  " {
		t.Errorf("out = %q", out)
	}
	if len(llm.systems) != 0 {
		t.Error("llm should not run on blank input")
	}
}

func TestRefineSimplified(t *testing.T) {
	r := New(Options{ConvertToSimplified: true}, nil)
	out := r.Refine(context.Background(), "這是繁體中文測試")
	if out != "这是繁体中文测试" {
		t.Errorf("out = %q", out)
	}
}

func TestOptionsEnabled(t *testing.T) {
	if (Options{}).Enabled() {
		t.Error("zero Options should not be enabled")
	}
	if !(Options{ConvertToSimplified: true}).Enabled() {
		t.Error("ConvertToSimplified should enable")
	}
}
