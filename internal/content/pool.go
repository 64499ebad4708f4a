// Package content holds the static check-in material: the question list and
// the pool of image references.
package content

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

var (
	ErrNoImages    = errors.New("image list is empty")
	ErrNoQuestions = errors.New("question list is empty")
)

// Pool picks questions and images. Safe for concurrent use.
type Pool struct {
	questions []string
	images    []string

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewPool builds a pool over fixed lists. A nil rng uses a randomly seeded source.
func NewPool(questions, images []string, rng *rand.Rand) (*Pool, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Pool{
		questions: append([]string(nil), questions...),
		images:    append([]string(nil), images...),
		rng:       rng,
	}, nil
}

// LoadImages reads one image reference per line from path, skipping blank lines.
func LoadImages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image list: %w", err)
	}
	defer f.Close()
	return ReadImages(f)
}

// ReadImages is LoadImages over an arbitrary reader.
func ReadImages(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read image list: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoImages
	}
	return out, nil
}

// Images returns a copy of the configured image references.
func (p *Pool) Images() []string { return append([]string(nil), p.images...) }

// RandomQuestion returns a uniformly chosen question. Repeats are allowed.
func (p *Pool) RandomQuestion() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.questions[p.rng.IntN(len(p.questions))]
}

// PickImage chooses uniformly among images not in used. When every image has
// been used, the whole pool is eligible again and the returned set restarts
// with just the pick. used is never modified; the returned set is new.
func (p *Pool) PickImage(used map[string]struct{}) (string, map[string]struct{}) {
	available := make([]string, 0, len(p.images))
	for _, img := range p.images {
		if _, ok := used[img]; !ok {
			available = append(available, img)
		}
	}

	next := make(map[string]struct{}, len(used)+1)
	if len(available) == 0 {
		available = p.images
	} else {
		for img := range used {
			// Stale references (not in the pool) are dropped here.
			if p.has(img) {
				next[img] = struct{}{}
			}
		}
	}

	p.mu.Lock()
	pick := available[p.rng.IntN(len(available))]
	p.mu.Unlock()

	next[pick] = struct{}{}
	return pick, next
}

func (p *Pool) has(img string) bool {
	for _, v := range p.images {
		if v == img {
			return true
		}
	}
	return false
}
