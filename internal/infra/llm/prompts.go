package llm

import (
	"encoding/json"
	"fmt"
	"time"

	"model-tracker/internal/domain/entity"
)

const discoverySystemPrompt = `You are an AI model release tracker. Search for AI model releases and announcements in the requested period. Focus on major providers like OpenAI, Anthropic, Google, Meta, xAI, Mistral, Cohere, AI21 Labs, and emerging labs.

Return ONLY a valid JSON array of discovered models. Each object must have:
- name: Full model name (e.g., "GPT-4.5", "Claude 4", "Gemini 2.0 Pro")
- provider: Company name
- releaseDate: ISO date string
- description: Brief description of the model
- sourceUrl: URL to the announcement or documentation

If no models were released in the period, return an empty array [].`

func latestDiscoveryPrompt(today time.Time) string {
	return fmt.Sprintf("Find all AI models released or announced on %s or in the past 24 hours. "+
		"Include language models, vision models, audio models, and multimodal models. Return as JSON array.",
		today.Format(entity.DateLayout))
}

func windowDiscoveryPrompt(w entity.DateWindow) string {
	return fmt.Sprintf("Find all AI models released or announced between %s and %s (inclusive). "+
		"Include language models, vision models, audio models, and multimodal models. "+
		"Use the actual release date of each model. Return as JSON array.",
		w.Start.Format(entity.DateLayout), w.End.Format(entity.DateLayout))
}

const detailsSystemPrompt = `You are an expert AI researcher. Provide detailed, accurate information about AI models. Include benchmarks, pricing, capabilities, and comparisons. Always cite sources when possible.`

func detailsPrompt(name, provider string) string {
	return fmt.Sprintf(`Research the AI model "%s" by %s. Provide:
1. Detailed description of capabilities
2. Model type (LLM, VLM, multimodal, etc.)
3. Parameter count if known
4. Context window size
5. Key benchmarks (MMLU, HumanEval, GPQA, etc.) with scores
6. Documentation URL
7. Paper URL if available
8. Pricing information (input/output per million tokens)
9. 3-5 key highlights or improvements
10. Comparisons with similar models

Return as JSON object with these fields: description, modelType, parameters, contextWindow, benchmarks (object), documentationUrl, paperUrl, pricingInfo (object with input/output), highlights (array), comparisons (array of {model, comparison}).`, name, provider)
}

func socialPostsPrompt(name, provider string) string {
	return fmt.Sprintf(`Search for recent social media posts (Twitter/X, LinkedIn, Reddit) about the AI model "%s" by %s.

Return a JSON array of posts with:
- platform: "twitter", "linkedin", or "reddit"
- url: URL to the post
- content: Brief summary of the post content

If no posts found, return empty array [].
Only return the JSON array, no other text.`, name, provider)
}

func contentPrompt(name, provider string, details *entity.ModelDetails, reference string) string {
	detailsJSON := []byte("{}")
	if details != nil {
		if b, err := json.MarshalIndent(details, "", "  "); err == nil {
			detailsJSON = b
		}
	}
	prompt := fmt.Sprintf(`Write a comprehensive article about the AI model "%s" by %s.

Use this information as context:
%s
`, name, provider, detailsJSON)
	if reference != "" {
		prompt += fmt.Sprintf(`
Excerpt from the official announcement:
%s
`, reference)
	}
	return prompt + `
Structure the article with these sections:
1. Overview - Introduction and key capabilities
2. Technical Specifications - Parameters, context window, architecture
3. Benchmark Results - Performance on standard benchmarks
4. Pricing & Availability - How to access and costs
5. Key Improvements - What's new compared to previous versions
6. Comparisons - How it stacks up against competitors
7. Getting Started - Quick start guide and links

Write in markdown format. Be accurate and cite sources where possible.
Keep it informative but concise (around 1000-1500 words).`
}
