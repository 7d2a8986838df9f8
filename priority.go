package heapstack

import (
	"strings"
)

// TopTierThreshold is the popularity at which an item outranks every flagged item.
const TopTierThreshold = 1000

// Tier is a coarse priority bracket. Higher tiers always outrank lower ones.
type Tier int

const (
	TierBase Tier = iota
	TierFlagged
	TierTop
)

func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierFlagged:
		return "flagged"
	default:
		return "base"
	}
}

// Classifier decides whether an item gets promoted to the flagged tier.
type Classifier interface {
	Flagged(name, description string) bool
}

var (
	// DefaultPhrases are matched as plain substrings.
	DefaultPhrases = []string{"deep learning", "machine learning", "chat", "chatbot", "neural", "transformer", "gpt", "langchain"}
	// DefaultTokens are matched only at word boundaries.
	DefaultTokens = []string{"ai", "ml", "llm"}
)

// KeywordClassifier flags items whose name or description mentions one of its keywords.
// Phrases match anywhere; tokens must be delimited by the string edges or a
// non-alphanumeric character, so "ai" matches "my-ai-tool" but not "brain".
type KeywordClassifier struct {
	Phrases []string
	Tokens  []string
}

// NewKeywordClassifier lowercases the keyword lists once up front.
func NewKeywordClassifier(phrases, tokens []string) *KeywordClassifier {
	return &KeywordClassifier{
		Phrases: lowerAll(phrases),
		Tokens:  lowerAll(tokens),
	}
}

// DefaultClassifier returns a classifier over DefaultPhrases and DefaultTokens.
func DefaultClassifier() *KeywordClassifier {
	return NewKeywordClassifier(DefaultPhrases, DefaultTokens)
}

func (c *KeywordClassifier) Flagged(name, description string) bool {
	text := strings.ToLower(name + " " + description)
	for _, p := range c.Phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	for _, tok := range c.Tokens {
		if containsToken(text, tok) {
			return true
		}
	}
	return false
}

// containsToken reports whether tok occurs in text with a boundary on both sides.
func containsToken(text, tok string) bool {
	if tok == "" {
		return false
	}
	for start := 0; start <= len(text)-len(tok); {
		i := strings.Index(text[start:], tok)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(tok)
		if (i == 0 || !isAlnum(text[i-1])) && (end == len(text) || !isAlnum(text[end])) {
			return true
		}
		start = i + 1
	}
	return false
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

// Rank is the ranking key of an item: tier first, then popularity.
type Rank struct {
	Tier       Tier
	Popularity int
	Flagged    bool
}

// RankOf computes the ranking key of it under c.
func RankOf(it Item, c Classifier) Rank {
	flagged := c.Flagged(it.Name, it.Description)
	r := Rank{Tier: TierBase, Popularity: it.Popularity, Flagged: flagged}
	switch {
	case it.Popularity >= TopTierThreshold:
		r.Tier = TierTop
	case flagged:
		r.Tier = TierFlagged
	}
	return r
}

// Compare returns a positive number if a outranks b, negative if b outranks a,
// and zero only when both rank and id are equal.
func Compare(a, b Entry) int {
	if a.Rank.Tier != b.Rank.Tier {
		if a.Rank.Tier > b.Rank.Tier {
			return 1
		}
		return -1
	}
	if a.Rank.Popularity != b.Rank.Popularity {
		if a.Rank.Popularity > b.Rank.Popularity {
			return 1
		}
		return -1
	}
	// Lexicographically smaller name wins.
	if c := strings.Compare(a.Item.Name, b.Item.Name); c != 0 {
		return -c
	}
	return -strings.Compare(a.Item.ID, b.Item.ID)
}
