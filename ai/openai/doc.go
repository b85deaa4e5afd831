// Package openai implements ai.Embedder against any OpenAI-compatible
// embeddings endpoint (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
package openai
