package service

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding is used for models tiktoken does not know, which covers
// every Gemini and most Ollama models.
const fallbackEncoding = "cl100k_base"

var (
	encodingsMu sync.Mutex
	encodings   = map[string]*tiktoken.Tiktoken{}
)

// estimateUsage counts tokens locally for providers that do not report usage.
// It returns a zero UsageInfo when no tokenizer can be loaded.
func estimateUsage(modelName, prompt, completion string) UsageInfo {
	tke := encodingFor(modelName)
	if tke == nil {
		return UsageInfo{}
	}
	p := len(tke.Encode(prompt, nil, nil))
	c := len(tke.Encode(completion, nil, nil))
	return UsageInfo{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c, Estimated: true}
}

func encodingFor(modelName string) *tiktoken.Tiktoken {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()

	if tke, ok := encodings[modelName]; ok {
		return tke
	}
	tke, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		tke, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		tke = nil
	}
	encodings[modelName] = tke
	return tke
}
