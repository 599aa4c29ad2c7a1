package phi

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

type Detector struct {
	rules   []compiledRule
	version string
}

func NewDetector(cfg RulesConfig) (*Detector, error) {
	var compiled []compiledRule
	fingerprint := sha256.New()
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
		fingerprint.Write([]byte(rule.Type + "|" + rule.Pattern + "|" + rule.Mask + "\n"))
	}
	return &Detector{
		rules:   compiled,
		version: hex.EncodeToString(fingerprint.Sum(nil))[:12],
	}, nil
}

// Version fingerprints the active ruleset so cached results derived from a
// different ruleset are never served.
func (d *Detector) Version() string {
	if d == nil {
		return ""
	}
	return d.version
}

// Finding summarises identifier hits in a note. Types is sorted so findings
// compare deterministically.
type Finding struct {
	Detected bool     `json:"detected"`
	Types    []string `json:"types,omitempty"`
	Count    int      `json:"count"`
}

func (d *Detector) Scan(text string) Finding {
	if d == nil || text == "" {
		return Finding{}
	}

	typeSet := make(map[string]struct{})
	count := 0
	for _, rule := range d.rules {
		matches := rule.re.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		typeSet[rule.rule.Type] = struct{}{}
		count += len(matches)
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	return Finding{
		Detected: count > 0,
		Types:    types,
		Count:    count,
	}
}

// Mask replaces identifier matches with the rule's mask. Applied to any
// note-derived text before it leaves the process.
func (d *Detector) Mask(text string) string {
	if d == nil {
		return text
	}
	masked := text
	for _, rule := range d.rules {
		masked = rule.re.ReplaceAllString(masked, rule.rule.Mask)
	}
	return masked
}
