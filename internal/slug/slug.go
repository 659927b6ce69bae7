// Package slug validates custom slugs and generates readable ones.
package slug

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxGenerateAttempts = 10

var slugRe = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

// Reserved slugs collide with service routes and can never be claimed.
var reserved = map[string]struct{}{
	"admin":  {},
	"api":    {},
	"health": {},
	"status": {},
	"backup": {},
}

var adjectives = []string{
	"amber", "bold", "brave", "bright", "calm", "clever", "cobalt", "coral",
	"crimson", "crisp", "eager", "fancy", "gentle", "golden", "happy", "indigo",
	"ivory", "jade", "jolly", "keen", "lively", "lucky", "mellow", "misty",
	"noble", "olive", "proud", "quick", "quiet", "rapid", "scarlet", "silent",
	"silver", "sunny", "swift", "teal", "tidy", "violet", "vivid", "witty",
}

var animals = []string{
	"badger", "beaver", "bison", "crane", "dolphin", "falcon", "ferret", "finch",
	"fox", "gecko", "heron", "ibis", "koala", "lemur", "lynx", "marmot",
	"marten", "mole", "newt", "orca", "osprey", "otter", "owl", "panda",
	"petrel", "puffin", "raven", "robin", "seal", "shrew", "sparrow", "stoat",
	"swan", "tapir", "tern", "toad", "vole", "walrus", "weasel", "wren",
}

// IsValidCustom reports whether s is acceptable as a caller-chosen slug:
// 3-50 lowercase alphanumerics and hyphens, no edge or doubled hyphen,
// not a reserved word.
func IsValidCustom(s string) bool {
	if !slugRe.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	if strings.Contains(s, "--") {
		return false
	}
	if _, ok := reserved[s]; ok {
		return false
	}

	return true
}

// GenerateUnique produces a readable two-word slug, retrying while taken
// reports a collision. After the attempt budget is spent it appends a
// random three-digit suffix to the last candidate and returns it without
// another check; the residual collision risk is accepted.
func GenerateUnique(ctx context.Context, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	const op = "slug.GenerateUnique"

	var candidate string
	for i := 0; i < maxGenerateAttempts; i++ {
		candidate = adjectives[rand.Intn(len(adjectives))] + "-" + animals[rand.Intn(len(animals))]

		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%s: failed to check slug: %w", op, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	suffix, err := gonanoid.Generate("0123456789", 3)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate suffix: %w", op, err)
	}

	return candidate + "-" + suffix, nil
}
