package normalize

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// maxRules caps the number of user rules loaded from one file.
	maxRules = 50
	// maxRegexLength caps user pattern length to keep compile and match
	// costs bounded.
	maxRegexLength = 1000
)

type userRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

type rulesFile struct {
	Rules []userRule `yaml:"rules"`
}

// LoadRules reads extra substitution rules from a YAML file of the form:
//
//	rules:
//	  - name: session-token
//	    pattern: 'session=[A-Za-z0-9]+'
//	    replace: 'session=<TOKEN>'
//
// Every rule must name a compilable regular expression and a non-empty
// replacement. A rule set that fails validation rejects the whole file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("normalize: read rules: %w", err)
	}
	return LoadRulesFromBytes(data)
}

// LoadRulesFromBytes parses and validates a rule set held in memory.
func LoadRulesFromBytes(data []byte) ([]Rule, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("normalize: parse rules: %w", err)
	}

	if len(rf.Rules) > maxRules {
		return nil, fmt.Errorf("normalize: %d rules exceeds limit of %d", len(rf.Rules), maxRules)
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, ur := range rf.Rules {
		name := ur.Name
		if name == "" {
			name = fmt.Sprintf("rule %d", i+1)
		}
		if strings.TrimSpace(ur.Pattern) == "" {
			return nil, fmt.Errorf("normalize: %s: pattern is empty", name)
		}
		if len(ur.Pattern) > maxRegexLength {
			return nil, fmt.Errorf("normalize: %s: pattern exceeds %d characters", name, maxRegexLength)
		}
		if ur.Replace == "" {
			return nil, fmt.Errorf("normalize: %s: replace is empty", name)
		}
		re, err := regexp.Compile(ur.Pattern)
		if err != nil {
			return nil, fmt.Errorf("normalize: %s: %w", name, err)
		}
		rules = append(rules, Rule{Regex: re, Replace: ur.Replace})
	}
	return rules, nil
}
