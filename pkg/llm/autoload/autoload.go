// Package autoload registers all built-in LLM provider factories via
// their package init() functions. Import it for side effects only.
package autoload

import (
	_ "helpbot/pkg/llm/ollamallm"
	_ "helpbot/pkg/llm/openaillm"
)
