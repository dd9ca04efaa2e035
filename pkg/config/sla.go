package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// DefaultSLA applies to priorities the policy file does not name.
var DefaultSLA = domain.SLA{Respond: 48, Resolve: 120}

// LoadSLAPolicy reads an INI file with one section per ticket priority:
//
//	respond = 48
//	resolve = 120
//
//	[Blocker]
//	respond = 2
//	resolve = 24
//
// Keys outside any section override the fallback limits.
func LoadSLAPolicy(path string) (domain.SLAPolicy, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return domain.SLAPolicy{}, fmt.Errorf("failed to load sla policy: %w", err)
	}

	root := cfg.Section(ini.DefaultSection)
	policy := domain.SLAPolicy{
		ByPriority: map[string]domain.SLA{},
		Default: domain.SLA{
			Respond: root.Key("respond").MustFloat64(DefaultSLA.Respond),
			Resolve: root.Key("resolve").MustFloat64(DefaultSLA.Resolve),
		},
	}

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		sla := domain.SLA{
			Respond: section.Key("respond").MustFloat64(policy.Default.Respond),
			Resolve: section.Key("resolve").MustFloat64(policy.Default.Resolve),
		}
		if sla.Respond <= 0 || sla.Resolve <= 0 {
			return domain.SLAPolicy{}, fmt.Errorf("priority %q: sla limits must be positive", section.Name())
		}
		policy.ByPriority[strings.ToLower(section.Name())] = sla
	}
	return policy, nil
}

// DefaultSLAPolicy is used when no policy file is configured.
func DefaultSLAPolicy() domain.SLAPolicy {
	return domain.SLAPolicy{Default: DefaultSLA}
}
