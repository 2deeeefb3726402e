// Package autoload registers all built-in channel factories via their
// package init() functions. Import it for side effects only.
package autoload

import (
	_ "helpbot/pkg/channels/console"
	_ "helpbot/pkg/channels/telegram"
	_ "helpbot/pkg/channels/web"
)
