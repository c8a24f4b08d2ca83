package recon

import (
	"fmt"
	"strings"

	"github.com/sdejongh/photorecon/pkg/models"
)

// Rule rewrites every occurrence of Match in a relative path with Replace
type Rule struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// ParseRule parses "match=replace"
func ParseRule(s string) (Rule, error) {
	match, replace, ok := strings.Cut(s, "=")
	if !ok {
		return Rule{}, fmt.Errorf("invalid transform rule %q (expected match=replace)", s)
	}
	if match == "" {
		return Rule{}, fmt.Errorf("invalid transform rule %q: empty match", s)
	}
	return Rule{Match: match, Replace: replace}, nil
}

// Apply rewrites path. The bool is false when the rule leaves path unchanged.
func (r Rule) Apply(path string) (string, bool) {
	if r.Match == "" {
		return path, false
	}
	out := strings.ReplaceAll(path, r.Match, r.Replace)
	return out, out != path
}

func (r Rule) String() string {
	return r.Match + "=" + r.Replace
}

// RuleSet is an ordered list of rules
type RuleSet []Rule

// ParseRules parses every "match=replace" string in order
func ParseRules(specs []string) (RuleSet, error) {
	rules := make(RuleSet, 0, len(specs))
	for _, s := range specs {
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Suppress applies each rule to relativePath, keeping size fixed, and
// returns the first rule whose rewritten identity exists in counterpart
// along with the counterpart record it matched.
func (rs RuleSet) Suppress(relativePath string, size uint64, counterpart *Index) (Rule, models.FileRecord, bool) {
	for _, rule := range rs {
		rewritten, changed := rule.Apply(relativePath)
		if !changed {
			continue
		}
		if match, ok := counterpart.Lookup(models.IdentityOf(rewritten, size)); ok {
			return rule, match, true
		}
	}
	return Rule{}, models.FileRecord{}, false
}
