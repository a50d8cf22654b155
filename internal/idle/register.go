package idle

import (
	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/registry"
)

func init() {
	for _, id := range config.Builtin() {
		cfg := config.MustEmbedded(id)
		registry.Register(id, func() registry.Game {
			return New(cfg)
		})
	}
}
