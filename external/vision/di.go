package vision

import (
	"log/slog"

	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/foxseedlab/raidtracker/internal/vision"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (vision.Analyzer, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.VisionEnabled() {
			slog.Warn("AI_API_URL is not set; screenshot detection is disabled")
			return vision.Disabled{}, nil
		}
		return NewHTTPAnalyzer(c.AIAPIURL, c.AIAPIKey, c.AIModel, c.AIRequestsPerMinute), nil
	})
}
