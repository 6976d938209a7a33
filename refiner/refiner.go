// Package refiner post-processes recognized text. Every stage is
// best-effort: a failing stage logs and passes its input through, so
// refinement can never lose a transcription.
package refiner

import (
	"context"
	"strings"
	"sync"

	"vtype/log"

	"github.com/longbridgeapp/opencc"
)

type Options struct {
	AddPunctuation      bool
	OptimizeResult      bool
	ConvertToSimplified bool
}

func (o Options) Enabled() bool {
	return o.AddPunctuation || o.OptimizeResult || o.ConvertToSimplified
}

type Refiner struct {
	opts Options
	llm  LLM

	ccOnce sync.Once
	cc     *opencc.OpenCC
	ccErr  error
}

func New(opts Options, llm LLM) *Refiner {
	return &Refiner{opts: opts, llm: llm}
}

// Refine applies the enabled stages in a fixed order: punctuation,
// optimization, then script conversion. Punctuation runs before the
// t2s pass so the LLM sees the text in its original script.
func (r *Refiner) Refine(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if r.opts.AddPunctuation {
		text = r.llmStage(ctx, "punctuation", punctuationPrompt, text)
	}
	if r.opts.OptimizeResult {
		text = r.llmStage(ctx, "optimize", optimizePrompt, text)
	}
	if r.opts.ConvertToSimplified {
		text = r.simplify(text)
	}
	return text
}

func (r *Refiner) llmStage(ctx context.Context, stage, prompt, text string) string {
	if r.llm == nil {
		return text
	}
	out, err := r.llm.Complete(ctx, prompt, text)
	if err != nil {
		log.Warnf("refiner %s stage failed: %v", stage, err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		log.Warnf("refiner %s stage returned nothing, keeping input", stage)
		return text
	}
	return out
}

func (r *Refiner) simplify(text string) string {
	r.ccOnce.Do(func() {
		r.cc, r.ccErr = opencc.New("t2s")
	})
	if r.ccErr != nil {
		log.Warnf("opencc init failed: %v", r.ccErr)
		return text
	}
	out, err := r.cc.Convert(text)
	if err != nil {
		log.Warnf("opencc convert failed: %v", err)
		return text
	}
	return out
}
