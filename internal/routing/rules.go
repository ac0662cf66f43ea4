package routing

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Variant maps a plural or alternate spelling to its canonical token
type Variant struct {
	Variant   string `yaml:"variant"`
	Canonical string `yaml:"canonical"`
}

// Rules is the table data behind the classifier and matcher.
// It is read-only once loaded and safe to share between sessions.
type Rules struct {
	PreferenceRead struct {
		Likes    []string `yaml:"likes"`
		Dislikes []string `yaml:"dislikes"`
	} `yaml:"preference_read"`
	InventoryPhrases    []string  `yaml:"inventory_phrases"`
	ShortQueryMaxTokens int       `yaml:"short_query_max_tokens"`
	ProductNames        []string  `yaml:"product_names"`
	Variants            []Variant `yaml:"variants"`
	CommonItems         []string  `yaml:"common_items"`
	Sentinel            string    `yaml:"sentinel"`
}

// DefaultRules returns the built-in tables
func DefaultRules() *Rules {
	rules, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules.yaml is invalid: %v", err))
	}
	return rules
}

// LoadRules reads tables from a YAML file, or the built-in tables when path is empty
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes and normalizes YAML table data
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules YAML: %w", err)
	}

	rules.normalize()

	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &rules, nil
}

// Validate checks the tables are usable
func (r *Rules) Validate() error {
	if len(r.PreferenceRead.Likes) == 0 || len(r.PreferenceRead.Dislikes) == 0 {
		return fmt.Errorf("rules: preference_read likes and dislikes phrases are required")
	}
	if len(r.InventoryPhrases) == 0 {
		return fmt.Errorf("rules: inventory_phrases cannot be empty")
	}
	if r.ShortQueryMaxTokens <= 0 {
		return fmt.Errorf("rules: short_query_max_tokens must be positive")
	}
	if r.Sentinel == "" {
		return fmt.Errorf("rules: sentinel cannot be empty")
	}
	for i, v := range r.Variants {
		if v.Variant == "" || v.Canonical == "" {
			return fmt.Errorf("rules: variant %d needs both variant and canonical", i)
		}
	}
	return nil
}

// normalize lowercases every entry. Phrases keep inner and trailing spaces
// ("any ", "sell ") because those spaces are part of the match.
func (r *Rules) normalize() {
	r.PreferenceRead.Likes = lowerAll(r.PreferenceRead.Likes)
	r.PreferenceRead.Dislikes = lowerAll(r.PreferenceRead.Dislikes)
	r.InventoryPhrases = lowerAll(r.InventoryPhrases)
	r.ProductNames = lowerAll(r.ProductNames)
	r.CommonItems = lowerAll(r.CommonItems)
	for i := range r.Variants {
		r.Variants[i].Variant = strings.ToLower(r.Variants[i].Variant)
		r.Variants[i].Canonical = strings.ToLower(r.Variants[i].Canonical)
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, strings.ToLower(v))
	}
	return out
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
