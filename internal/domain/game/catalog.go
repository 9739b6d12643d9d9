package game

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/phrazzld/carecompanion/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is the built-in game content used when a game definition does not
// carry its own words or sequences.
type Catalog struct {
	Symbols   []string                                     `yaml:"symbols"`
	Words     map[domain.Difficulty][]string               `yaml:"words"`
	Sequences map[domain.Difficulty][]domain.SequenceLevel `yaml:"sequences"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(fmt.Sprintf("game: invalid built-in catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse game catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the catalog can serve every difficulty.
func (c *Catalog) Validate() error {
	need := PairCount(domain.DifficultyHard)
	if len(c.Symbols) < need {
		return fmt.Errorf("game catalog needs at least %d symbols, has %d", need, len(c.Symbols))
	}
	seen := make(map[string]struct{}, len(c.Symbols))
	for _, s := range c.Symbols {
		if _, dup := seen[s]; dup {
			return fmt.Errorf("game catalog has duplicate symbol %q", s)
		}
		seen[s] = struct{}{}
	}

	for _, d := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		if len(c.Words[d]) == 0 {
			return fmt.Errorf("game catalog has no %s words", d)
		}
		if len(c.Sequences[d]) == 0 {
			return fmt.Errorf("game catalog has no %s sequences", d)
		}
		if err := domain.ValidateGameContent(c.Words[d], c.Sequences[d]); err != nil {
			return fmt.Errorf("game catalog %s content: %w", d, err)
		}
	}
	return nil
}

// symbolsFor returns the alphabet prefix for a difficulty.
func (c *Catalog) symbolsFor(d domain.Difficulty) []string {
	return slices.Clone(c.Symbols[:PairCount(d)])
}

// WordLevel is one round of the word-unscramble game.
type WordLevel struct {
	Scrambled string `json:"scrambled"`
	Answer    string `json:"-"`
}

// Scramble returns the letters of word in a fixed, shuffled-looking order.
// The result is deterministic so the same definition always produces the
// same puzzle; it differs from the word whenever the letters allow it.
func Scramble(word string) string {
	letters := []rune(strings.ToUpper(word))
	n := len(letters)
	if n < 2 {
		return string(letters)
	}

	orig := string(letters)
	// Interleave the back half with the front half, then rotate.
	out := make([]rune, 0, n)
	for i, j := n/2, 0; len(out) < n; i, j = i+1, j+1 {
		if i < n {
			out = append(out, letters[i])
		}
		if j < n/2 {
			out = append(out, letters[j])
		}
	}
	if string(out) != orig {
		return string(out)
	}

	slices.Reverse(letters)
	return string(letters)
}

func wordLevels(words []string) []WordLevel {
	levels := make([]WordLevel, len(words))
	for i, w := range words {
		levels[i] = WordLevel{Scrambled: Scramble(w), Answer: w}
	}
	return levels
}
