package app

import (
	"context"
	"strings"

	"homeworkbot/internal/config"
	logx "homeworkbot/pkg/logx"
)

// reloadLoop applies hot-reloaded configs. Only logging is live; other
// sections take effect on restart.
func (a *App) reloadLoop(ctx context.Context, sub chan *config.Config) {
	lastApplied := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config in the channel.
		drain:
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
				default:
					break drain
				}
			}
			a.applyConfig(lastApplied, newCfg)
			lastApplied = newCfg
		}
	}
}

func (a *App) applyConfig(oldCfg, newCfg *config.Config) {
	if newCfg == nil {
		return
	}
	sections, attrs := config.SummarizeConfigChange(oldCfg, newCfg)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}
	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	a.log.Info("config change summary", fields...)

	for _, s := range sections {
		if s == "logging" {
			prev := a.logs.Config()
			next := mapLoggingConfig(newCfg)
			a.logs.Apply(next)
			a.log.Info("logging reconfigured", logx.String("from_level", prev.Level), logx.String("to_level", next.Level))
			continue
		}
		a.log.Warn("config section changed; restart required for changes to take effect", logx.String("section", s))
	}
}
