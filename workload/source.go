package workload

import (
	"strconv"

	"github.com/brianvoe/gofakeit/v6"
)

// Source hands out synthetic keys. Benchmarks and the console take a Source
// instead of reaching for package-level randomness.
type Source interface {
	// Key returns a key not previously returned by this source.
	Key() string
	// Keys returns n fresh keys.
	Keys(n int) []string
}

// FakeSource generates unique person names with gofakeit.
type FakeSource struct {
	faker *gofakeit.Faker
	seen  map[string]struct{}
}

// NewFakeSource returns a source seeded with seed. A zero seed is random.
func NewFakeSource(seed int64) *FakeSource {
	return &FakeSource{
		faker: gofakeit.New(seed),
		seen:  make(map[string]struct{}),
	}
}

// maxRetries bounds how many fresh names are drawn before a numeric suffix
// is used to break a collision.
const maxRetries = 8

func (s *FakeSource) Key() string {
	name := s.faker.Name()
	for i := 0; i < maxRetries; i++ {
		if _, dup := s.seen[name]; !dup {
			break
		}
		name = s.faker.Name()
	}
	if _, dup := s.seen[name]; dup {
		base := name
		for n := len(s.seen); ; n++ {
			name = base + " " + strconv.Itoa(n)
			if _, dup := s.seen[name]; !dup {
				break
			}
		}
	}
	s.seen[name] = struct{}{}
	return name
}

func (s *FakeSource) Keys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = s.Key()
	}
	return keys
}
